package importer

import (
	"fmt"

	"workhours/config"
	"workhours/worklog"
)

// Mapper turns one source row into an interval. ok is false for rows that carry no work.
type Mapper interface {
	Name() string
	Map(record Record, rule config.Rule) (interval *worklog.Interval, ok bool, err error)
}

func SupportedMapperNames() []string {
	return append([]string(nil), config.SupportedMappers...)
}

// MapperByName returns a fresh mapper. Stateful mappers must not be shared across files.
func MapperByName(name string) (Mapper, error) {
	switch normalizeHeader(name) {
	case "", "generic":
		return &GenericMapper{}, nil
	case "hours":
		return &HoursMapper{}, nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %s", name)
	}
}
