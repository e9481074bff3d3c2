package config

type Context struct {
	Modules []ModuleI
	Config  *Config
	// HomePath is the directory chain stores are resolved against.
	HomePath string
}

// InitChains builds the chains of the loaded config.
func (ctx *Context) InitChains() error {
	return ctx.Config.InitChains(ctx.HomePath)
}
