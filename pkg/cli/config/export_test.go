package config

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, dir string) *Storage {
	return &Storage{
		backend: backend,
		dir:     dir,
		redisDB: "0",
	}
}

// SetRedisForTest sets the redis flags of a Storage config
func (s *Storage) SetRedisForTest(addr, db string) {
	s.redisAddr = addr
	s.redisDB = db
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewAppConfigForTest creates an AppConfig for testing purposes
func NewAppConfigForTest(configPath, storageKey, passphrase string) *AppConfig {
	return &AppConfig{
		configPath: configPath,
		storageKey: storageKey,
		passphrase: passphrase,
	}
}
