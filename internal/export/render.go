package export

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TargetGroup is one file_sd scrape block: a target list and the label
// map applied to it.
type TargetGroup struct {
	Targets []string          `yaml:"targets"`
	Labels  map[string]string `yaml:"labels,omitempty"`
}

// RenderedGroup pairs a group's path relative to the export root with
// its rendered bytes.
type RenderedGroup struct {
	Path string
	Data []byte
}

// Render serializes one group into Prometheus file_sd YAML: one block
// per record, in the group's record order. Rendering is pure, so the
// same group always yields the same bytes.
func Render(g *Group) ([]byte, error) {
	blocks := make([]TargetGroup, 0, len(g.Records))
	for _, rec := range g.Records {
		blocks = append(blocks, TargetGroup{
			Targets: []string{rec.Target},
			Labels:  rec.Labels,
		})
	}
	data, err := yaml.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("marshal group %s: %w", g.Key.Path(), err)
	}
	return data, nil
}
