package config

const (
	DefaultPort          = 3000
	DefaultDataDir       = "./data"
	DefaultClippingsFile = "My Clippings.txt"
	DefaultCoversDir     = "./public/covers"
	DefaultStaticPath    = "./public"
)
