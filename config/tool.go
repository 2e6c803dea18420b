package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tool is the yaml config of the studio binary itself, as opposed to
// Payload which belongs to the edited scene.
type Tool struct {
	Listen     string  `yaml:"listen"`
	WebPath    string  `yaml:"webPath"`
	TimelineVh float32 `yaml:"timelineVh"`
	DemoScene  bool    `yaml:"demoScene"`
}

func DefaultTool() Tool {
	return Tool{
		Listen:     ":8000",
		WebPath:    "web",
		TimelineVh: 200,
		DemoScene:  true,
	}
}

// LoadTool reads a yaml tool config, overlaying the defaults.
func LoadTool(path string) (Tool, error) {
	t := DefaultTool()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return t, errors.Wrapf(err, "Failed to read config %q", path)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, errors.Wrapf(err, "Failed to parse config %q", path)
	}
	return t, nil
}
