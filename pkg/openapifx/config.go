package openapifx

type Config struct {
	Enabled    bool
	PublicHost string
	PublicPath string
}
