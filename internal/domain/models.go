package domain

import "fmt"

// AppKind describes where an app definition came from
type AppKind string

const (
	KindAlias   AppKind = "alias"   // name mapped to a fixed port in the config
	KindProcess AppKind = "process" // directory with a Procfile
	KindStatic  AppKind = "static"  // directory with an index.html
)

// App represents a locally configured application shown in the list
type App struct {
	Name string
	Port int    // only set for aliases
	Kind AppKind
	Dir  string // source directory, empty for aliases
}

// URL returns the local address the app is served under for tld
func (a App) URL(tld string) string {
	return fmt.Sprintf("http://%s.%s", a.Name, tld)
}

func (a App) String() string {
	if a.Port > 0 {
		return fmt.Sprintf("%s:%d", a.Name, a.Port)
	}
	return a.Name
}
