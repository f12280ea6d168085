package cfg

type Cfg struct {
	// Application configuration
	Port       string
	ConfigFile string
	StaticDir  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
