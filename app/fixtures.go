package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
)

// fixtureFile is the on-disk shape of a fixture set.
type fixtureFile struct {
	Teachers []model.Teacher `json:"teachers"`
	Courses  []model.Course  `json:"courses"`
	Lessons  []model.Lesson  `json:"lessons"`
}

// LoadFixtures reads teachers, courses and lessons from a yaml or json
// file. Lessons are grouped into schedules by their schedule id.
func LoadFixtures(path string) (Fixtures, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return Fixtures{}, fmt.Errorf("unsupported fixture format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Fixtures{}, err
	}
	var f fixtureFile
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return Fixtures{}, err
	}

	schedules := make(map[string][]model.Lesson)
	for _, l := range f.Lessons {
		schedules[l.ScheduleID] = append(schedules[l.ScheduleID], l)
	}
	return Fixtures{Schedules: schedules, Courses: f.Courses, Teachers: f.Teachers}, nil
}
