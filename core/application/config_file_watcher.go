package application

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/config"
)

type fileHandler func(fileContent []byte, appConfig *config.ApplicationConfig) error

// configFileHandler reloads selected files from the dynamic config
// directory while the server is running. Currently only api_keys.json
// is watched.
type configFileHandler struct {
	handlers map[string]fileHandler

	watcher *fsnotify.Watcher

	appConfig *config.ApplicationConfig
}

func newConfigFileHandler(appConfig *config.ApplicationConfig) configFileHandler {
	c := configFileHandler{
		handlers:  make(map[string]fileHandler),
		appConfig: appConfig,
	}
	if err := c.Register("api_keys.json", readApiKeysJson(*appConfig), true); err != nil {
		log.Error().Err(err).Str("file", "api_keys.json").Msg("unable to register config file handler")
	}
	return c
}

func (c *configFileHandler) Register(filename string, handler fileHandler, runNow bool) error {
	if _, ok := c.handlers[filename]; ok {
		return fmt.Errorf("handler already registered for file %s", filename)
	}
	c.handlers[filename] = handler
	if runNow {
		c.callHandler(filename, handler)
	}
	return nil
}

func (c *configFileHandler) callHandler(filename string, handler fileHandler) {
	rootedFilePath := filepath.Join(c.appConfig.DynamicConfigsDir, filepath.Clean(filename))
	fileContent, err := os.ReadFile(rootedFilePath)
	if err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("filename", rootedFilePath).Msg("could not read file")
	}

	if err = handler(fileContent, c.appConfig); err != nil {
		log.Error().Err(err).Str("filename", rootedFilePath).Msg("dynamic config update failed")
	}
}

func (c *configFileHandler) Watch() error {
	configWatcher, err := fsnotify.NewWatcher()
	c.watcher = configWatcher
	if err != nil {
		return err
	}

	if c.appConfig.DynamicConfigsDirPollInterval > 0 {
		log.Debug().Msg("poll interval set, also polling for configuration changes")
		ticker := time.NewTicker(c.appConfig.DynamicConfigsDirPollInterval)
		go func() {
			for {
				<-ticker.C
				for file, handler := range c.handlers {
					c.callHandler(file, handler)
				}
			}
		}()
	}

	go func() {
		for {
			select {
			case event, ok := <-c.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove) {
					handler, ok := c.handlers[path.Base(event.Name)]
					if !ok {
						continue
					}
					c.callHandler(filepath.Base(event.Name), handler)
				}
			case err, ok := <-c.watcher.Errors:
				log.Error().Err(err).Msg("config watcher error received")
				if !ok {
					return
				}
			}
		}
	}()

	if err := c.watcher.Add(c.appConfig.DynamicConfigsDir); err != nil {
		return fmt.Errorf("unable to create a watcher on the configuration directory: %w", err)
	}

	return nil
}

func (c *configFileHandler) Stop() error {
	return c.watcher.Close()
}

func readApiKeysJson(startupAppConfig config.ApplicationConfig) fileHandler {
	return func(fileContent []byte, appConfig *config.ApplicationConfig) error {
		if len(fileContent) > 0 {
			var fileKeys []string
			if err := json.Unmarshal(fileContent, &fileKeys); err != nil {
				return err
			}
			appConfig.ApiKeys = append(startupAppConfig.ApiKeys, fileKeys...)
		} else {
			appConfig.ApiKeys = startupAppConfig.ApiKeys
		}
		log.Debug().Int("numKeys", len(appConfig.ApiKeys)).Msg("api keys reloaded")
		return nil
	}
}
