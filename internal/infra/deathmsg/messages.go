package deathmsg

import (
	"embed"
	"log"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yml
var defaults embed.FS

// Messages: plantillas por categoría de muerte. Placeholders:
// {killer} {victim} {weapon} {location}.
type Messages struct {
	Suicide      []string `yaml:"suicide"`
	FirstKill    []string `yaml:"first_kill"`
	Retaliate    []string `yaml:"retaliate"`
	RetaliateOld []string `yaml:"retaliate_old"`
	Accident     []string `yaml:"accident"`
}

// Load lee el yml del operador; si no existe usa los defaults embebidos.
func Load(path string) (*Messages, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[DEATHMSG] no pude leer %s, uso defaults: %v", path, err)
		}
		raw, err = defaults.ReadFile("defaults.yml")
		if err != nil {
			return nil, err
		}
	}
	var m Messages
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

type Vars struct {
	Killer   string
	Victim   string
	Weapon   string
	Location string
}

// Render elige una plantilla al azar de la categoría y reemplaza placeholders.
func (m *Messages) Render(category string, v Vars) string {
	var pool []string
	switch category {
	case "Suicide":
		pool = m.Suicide
	case "FirstKill":
		pool = m.FirstKill
	case "Retaliate":
		pool = m.Retaliate
	case "RetaliateOld":
		pool = m.RetaliateOld
	case "Accident":
		pool = m.Accident
	}

	tpl := "{victim} died."
	if len(pool) > 0 {
		tpl = pool[rand.IntN(len(pool))]
	}

	return strings.NewReplacer(
		"{killer}", v.Killer,
		"{victim}", v.Victim,
		"{weapon}", v.Weapon,
		"{location}", v.Location,
	).Replace(tpl)
}
