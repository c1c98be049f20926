package database

import (
	"fmt"

	"github.com/fathoor/custodia/internal/domain"
)

// Supporting a new engine means registering one more strategy here.
var dumpers = map[domain.Engine]func(domain.DatabaseTarget) domain.Dumper{
	domain.EnginePostgreSQL: func(t domain.DatabaseTarget) domain.Dumper { return NewPostgreSQL(t) },
	domain.EngineMySQL:      func(t domain.DatabaseTarget) domain.Dumper { return NewMySQL(t) },
	domain.EngineMongoDB:    func(t domain.DatabaseTarget) domain.Dumper { return NewMongoDB(t) },
}

// ForTarget selects the dump strategy for a target's engine without spawning
// any subprocess.
func ForTarget(t domain.DatabaseTarget) (domain.Dumper, error) {
	factory, ok := dumpers[t.Engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEngine, t.Engine)
	}
	return factory(t), nil
}
