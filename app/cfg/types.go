package cfg

type Cfg struct {
	// Cache store configuration
	CachePath string
	RedisAddr string

	// Application configuration
	SiteFile        string
	Port            string
	BaseUrl         string
	WorkerCount     int
	RefreshInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
