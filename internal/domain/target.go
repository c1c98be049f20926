package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Engine string

const (
	EnginePostgreSQL Engine = "postgresql"
	EngineMySQL      Engine = "mysql"
	EngineMongoDB    Engine = "mongodb"
)

// Scheme aliases accepted in connection URIs, normalized to canonical engines.
var engineSchemes = map[string]Engine{
	"postgres":   EnginePostgreSQL,
	"postgresql": EnginePostgreSQL,
	"mysql":      EngineMySQL,
	"mongo":      EngineMongoDB,
	"mongodb":    EngineMongoDB,
}

// DatabaseTarget describes one database to back up. It is parsed once from
// its connection URI and immutable afterwards.
type DatabaseTarget struct {
	Engine   Engine
	Host     string
	Port     int
	User     string
	Password string
	Database string
	URI      string
}

// ParseTarget parses a connection URI of the form
// <engine>://[user[:password]@]host[:port]/dbname. The engine token selects
// the dump strategy; missing optional fields are left empty and the port
// falls back to the engine default.
func ParseTarget(rawURI string) (DatabaseTarget, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return DatabaseTarget{}, fmt.Errorf("parse connection uri: %w", err)
	}

	engine, ok := engineSchemes[strings.ToLower(u.Scheme)]
	if !ok {
		return DatabaseTarget{}, fmt.Errorf("%w: %q", ErrUnsupportedEngine, u.Scheme)
	}

	target := DatabaseTarget{
		Engine:   engine,
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		URI:      rawURI,
	}

	if u.User != nil {
		target.User = u.User.Username()
		target.Password, _ = u.User.Password()
	}

	if port := u.Port(); port != "" {
		target.Port, err = strconv.Atoi(port)
		if err != nil {
			return DatabaseTarget{}, fmt.Errorf("parse port %q: %w", port, err)
		}
	} else {
		target.Port = engine.DefaultPort()
	}

	return target, nil
}

func (e Engine) DefaultPort() int {
	switch e {
	case EnginePostgreSQL:
		return 5432
	case EngineMySQL:
		return 3306
	case EngineMongoDB:
		return 27017
	}
	return 0
}

// String identifies the target in logs without leaking credentials.
func (t DatabaseTarget) String() string {
	return fmt.Sprintf("%s/%s@%s", t.Engine, t.Database, t.Host)
}
