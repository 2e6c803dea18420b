package main

import (
	"flag"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_studio/config"
	"github.com/mogaika/scene_studio/editor"
	"github.com/mogaika/scene_studio/scene"
	"github.com/mogaika/scene_studio/utils"
	"github.com/mogaika/scene_studio/web"
)

// buildDemoScene fills an arena with a small showcase scene so the
// editor is usable before any model is imported.
func buildDemoScene(a *scene.Arena) {
	var rng utils.RandomNameGenerator

	root := a.NewNode(scene.KindGroup, "Scene", scene.None)
	a.NewNode(scene.KindCamera, "Main Camera", root)
	a.NewNode(scene.KindLight, "Sun", root)

	props := a.NewNode(scene.KindGroup, "Props", root)
	for i := 0; i < 3; i++ {
		m := a.NewNode(scene.KindMesh, rng.RandomName(), props)
		n := a.Node(m)
		n.Position = mgl32.Vec3{float32(i)*2 - 2, 0.5, 0}
		n.SetLocalBox(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
	}

	figure := a.NewNode(scene.KindGroup, "Figure", root)
	body := a.NewNode(scene.KindMesh, "", figure)
	a.Node(body).SetLocalBox(mgl32.Vec3{-0.3, 0, -0.3}, mgl32.Vec3{0.3, 1.8, 0.3})
	rig := a.NewNode(scene.KindSkeletonHelper, "Rig", figure)
	spine := a.NewNode(scene.KindBone, "spine", rig)
	a.NewNode(scene.KindBone, "head", spine)

	a.UpdateWorldMatrix(root)
}

func main() {
	var addr, configPath, webPath string
	var timelineVh float64
	flag.StringVar(&addr, "i", "", "Address of server (overrides config)")
	flag.StringVar(&configPath, "config", "", "Path to yaml tool config")
	flag.StringVar(&webPath, "web", "", "Path to web client files (overrides config)")
	flag.Float64Var(&timelineVh, "timeline", 0, "Timeline length override, in vh units")
	flag.Parse()

	tool := config.DefaultTool()
	if configPath != "" {
		var err error
		if tool, err = config.LoadTool(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if addr != "" {
		tool.Listen = addr
	}
	if webPath != "" {
		tool.WebPath = webPath
	}
	if timelineVh > 0 {
		tool.TimelineVh = float32(timelineVh)
	}

	payload := config.Defaults()
	payload.Settings.TimelineVh = tool.TimelineVh
	payload.Clamp()

	session := editor.NewSession(payload)
	if tool.DemoScene {
		token := session.BeginLoad()
		a := scene.NewArena()
		buildDemoScene(a)
		session.CommitLoad(token, a)
		log.Printf("[main] demo scene with %d layers", len(session.Layers().Entries()))
	}

	if err := web.StartServer(tool.Listen, session, tool.WebPath); err != nil {
		log.Fatal(err)
	}
}
