package web

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/scene_studio/editor"
	"github.com/mogaika/scene_studio/editor/keyframes"
	"github.com/mogaika/scene_studio/scene"
	"github.com/mogaika/scene_studio/status"
	"github.com/mogaika/scene_studio/utils"
	"github.com/mogaika/scene_studio/webutils"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func muxNodeId(r *http.Request) (scene.NodeID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return scene.None, errors.Errorf("Layer id %q is not integer", raw)
	}
	return scene.NodeID(id), nil
}

func muxProperty(r *http.Request) (keyframes.Property, error) {
	return keyframes.ParseProperty(mux.Vars(r)["property"])
}

func HandlerAjaxLayers(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	if r.URL.Query().Get("all") != "" {
		webutils.WriteJson(w, serverSession.Layers().Entries())
	} else {
		webutils.WriteJson(w, serverSession.Layers().ShownEntries())
	}
}

func HandlerAjaxLayer(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	id, err := muxNodeId(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	e := serverSession.Layers().Entry(id)
	if e == nil {
		webutils.WriteError(w, errors.Errorf("No layer %d", id))
		return
	}
	webutils.WriteJson(w, e)
}

func HandlerAjaxSelection(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	webutils.WriteJson(w, map[string]interface{}{
		"selected": serverSession.Layers().Selected(),
	})
}

func HandlerAjaxHistory(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	webutils.WriteJson(w, map[string]interface{}{
		"entries": serverSession.History().Entries(),
		"cursor":  serverSession.History().Cursor(),
	})
}

func HandlerAjaxTimeline(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	t := serverSession.Timeline()
	webutils.WriteJson(w, map[string]interface{}{
		"position": t.Position(),
		"progress": t.Progress(),
		"lengthVh": t.LengthVh(),
		"active":   t.Active(),
	})
}

func HandlerAjaxTracks(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	id, err := muxNodeId(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, serverSession.Keyframes().LayerTracks(id))
}

func HandlerAjaxConfig(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	webutils.WriteJson(w, serverSession.Config())
}

func HandlerAjaxCamera(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	webutils.WriteJson(w, serverSession.CameraView())
}

func HandlerActionLayer(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	id, err := muxNodeId(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s := serverSession
	action := mux.Vars(r)["action"]
	switch action {
	case "select":
		s.SelectLayer(id)
	case "rename":
		s.RenameLayer(id, r.FormValue("name"))
	case "visible":
		s.SetLayerVisible(id, r.FormValue("visible") == "true")
	case "delete":
		s.DeleteLayer(id)
	case "duplicate":
		if clone := s.DuplicateLayer(id); clone != scene.None {
			webutils.WriteJson(w, s.Layers().Entry(clone))
			status.Edit(action, "layer %d", id)
			return
		}
		webutils.WriteError(w, errors.Errorf("Failed to duplicate layer %d", id))
		return
	case "collapse":
		s.Layers().SetCollapsed(id, r.FormValue("collapsed") == "true")
	default:
		webutils.WriteError(w, errors.Errorf("Unknown layer action %q", action))
		return
	}
	status.Edit(action, "layer %d", id)
	webutils.WriteJson(w, s.Layers().Entry(id))
}

func HandlerActionLayerTransform(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	id, err := muxNodeId(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	prop, err := muxProperty(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s := serverSession
	phase := mux.Vars(r)["phase"]
	switch phase {
	case "begin":
		s.BeginTransform(id, prop)
	case "update":
		s.UpdateTransform(id, prop, r.FormValue("value"))
	case "commit":
		s.CommitTransform(id, prop)
		status.Edit("transform", "%v of layer %d", prop, id)
	default:
		webutils.WriteError(w, errors.Errorf("Unknown gesture phase %q", phase))
		return
	}
	webutils.WriteJson(w, s.Layers().Entry(id))
}

func HandlerActionHistory(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	s := serverSession
	action := mux.Vars(r)["action"]
	switch action {
	case "undo":
		s.History().Undo()
	case "redo":
		s.History().Redo()
	case "reset":
		s.History().Reset()
	case "jump":
		index, err := strconv.Atoi(r.FormValue("index"))
		if err != nil {
			webutils.WriteError(w, errors.Errorf("Index %q is not integer", r.FormValue("index")))
			return
		}
		s.History().JumpTo(index)
	default:
		webutils.WriteError(w, errors.Errorf("Unknown history action %q", action))
		return
	}
	status.Edit(action, "history cursor %d", s.History().Cursor())
	webutils.WriteJson(w, map[string]interface{}{
		"cursor": s.History().Cursor(),
	})
}

func HandlerActionTrack(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	id, err := muxNodeId(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	prop, err := muxProperty(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s := serverSession
	action := mux.Vars(r)["action"]
	switch action {
	case "toggle":
		s.ToggleTrack(id, prop, r.FormValue("enabled") == "true")
	case "upsert":
		position, err1 := utils.ParseFloat(r.FormValue("position"))
		value, err2 := utils.ParseFloat(r.FormValue("value"))
		if err1 != nil || err2 != nil {
			webutils.WriteError(w, errors.Errorf("Bad keyframe position/value"))
			return
		}
		s.UpsertKeyframe(id, prop, position, value)
	case "navigate":
		s.NavigateKeyframe(id, prop, r.FormValue("dir") == "next")
	default:
		webutils.WriteError(w, errors.Errorf("Unknown track action %q", action))
		return
	}
	status.Edit(action, "track %v of layer %d", prop, id)
	webutils.WriteJson(w, s.Keyframes().LayerTracks(id))
}

func HandlerActionTimeline(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	s := serverSession
	t := s.Timeline()
	action := mux.Vars(r)["action"]
	switch action {
	case "scroll":
		if offset, err := utils.ParseFloat(r.FormValue("offset")); err == nil {
			t.OnScroll(offset)
		}
	case "resize":
		if height, err := utils.ParseFloat(r.FormValue("height")); err == nil {
			t.OnResize(height)
		}
	case "seek":
		if position, err := utils.ParseFloat(r.FormValue("position")); err == nil {
			t.Seek(position)
		}
	case "mode":
		var cam editor.CameraView
		if raw := r.FormValue("camera"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &cam); err != nil {
				webutils.WriteError(w, errors.Wrapf(err, "Bad camera view"))
				return
			}
		}
		s.SetAnimateMode(r.FormValue("enabled") == "true", cam)
	default:
		webutils.WriteError(w, errors.Errorf("Unknown timeline action %q", action))
		return
	}
	webutils.WriteJson(w, map[string]interface{}{
		"position": t.Position(),
		"progress": t.Progress(),
	})
}

func HandlerUploadConfig(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	if strings.ToUpper(r.Method) != "POST" {
		webutils.WriteError(w, errors.Errorf("Invalid http method %q", r.Method))
		return
	}
	f, _, err := r.FormFile("config")
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to get file"))
		return
	}
	defer f.Close()
	raw, err := ioutil.ReadAll(f)
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to read"))
		return
	}
	if err := serverSession.ApplyConfig(raw); err != nil {
		log.Printf("[web] config rejected: %v", err)
		webutils.WriteError(w, err)
		return
	}
	status.Edit("config", "configuration applied")
	webutils.WriteJson(w, serverSession.Config())
}

func HandlerDumpTracks(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	webutils.WriteJsonFile(w, serverSession.Keyframes().Tracks(), "scene_animation")
}

func HandlerUploadTracks(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	var tracks []*keyframes.Track
	if err := webutils.ReadJsonFile(r, "tracks", &tracks); err != nil {
		webutils.WriteError(w, err)
		return
	}
	serverSession.Keyframes().Restore(tracks)
	status.Edit("tracks", "animation import, %d tracks", len(serverSession.Keyframes().Tracks()))
	webutils.WriteJson(w, serverSession.Keyframes().Tracks())
}

func HandlerDumpConfig(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	webutils.WriteJsonFile(w, serverSession.Config(), "scene_settings")
}

func HandlerDumpSession(w http.ResponseWriter, r *http.Request) {
	sessionLock.Lock()
	defer sessionLock.Unlock()
	w.Header().Set("Content-Type", "text/plain")
	webutils.WriteResult(w, []byte(utils.SDump(
		serverSession.Layers().Entries(),
		serverSession.Keyframes().Tracks())))
}

func HandlerWsEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
