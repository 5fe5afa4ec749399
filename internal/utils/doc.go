// Package utils carries the CLI's shared infrastructure: the viper-backed
// ConfigurationLoader, the zap LoggerFactory, the context accessor that
// threads the resolved configuration path through commands, and the
// FlushingWriter that keeps progress output visible through buffered pipes.
package utils
