package web

import (
	"log"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/scene_studio/editor"
)

// The session is mutated only under sessionLock, inside handlers.
// That keeps every editing operation single-writer, matching the one
// UI thread the editing core assumes.
var serverSession *editor.Session
var sessionLock sync.Mutex

func StartServer(addr string, s *editor.Session, webPath string) error {
	serverSession = s

	r := mux.NewRouter()
	r.HandleFunc("/json/layers", HandlerAjaxLayers)
	r.HandleFunc("/json/layers/{id}", HandlerAjaxLayer)
	r.HandleFunc("/json/selection", HandlerAjaxSelection)
	r.HandleFunc("/json/history", HandlerAjaxHistory)
	r.HandleFunc("/json/timeline", HandlerAjaxTimeline)
	r.HandleFunc("/json/tracks/{id}", HandlerAjaxTracks)
	r.HandleFunc("/json/config", HandlerAjaxConfig)
	r.HandleFunc("/json/camera", HandlerAjaxCamera)

	r.HandleFunc("/action/layer/{id}/transform/{property}/{phase}", HandlerActionLayerTransform)
	r.HandleFunc("/action/layer/{id}/{action}", HandlerActionLayer)
	r.HandleFunc("/action/history/{action}", HandlerActionHistory)
	r.HandleFunc("/action/track/{id}/{property}/{action}", HandlerActionTrack)
	r.HandleFunc("/action/timeline/{action}", HandlerActionTimeline)

	r.HandleFunc("/upload/config", HandlerUploadConfig)
	r.HandleFunc("/upload/tracks", HandlerUploadTracks)
	r.HandleFunc("/dump/config", HandlerDumpConfig)
	r.HandleFunc("/dump/tracks", HandlerDumpTracks)
	r.HandleFunc("/dump/session", HandlerDumpSession)

	r.HandleFunc("/ws/events", HandlerWsEvents)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
