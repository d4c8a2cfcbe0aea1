package signals

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	handlers      []func()
	handlersMutex sync.Mutex
	setupOnce     sync.Once
)

// RegisterGracefulTerminationHandler registers a function to run when
// the process receives SIGINT or SIGTERM. Handlers run in registration
// order, then the process exits.
func RegisterGracefulTerminationHandler(fn func()) {
	handlersMutex.Lock()
	defer handlersMutex.Unlock()
	handlers = append(handlers, fn)
}

func init() {
	setupOnce.Do(func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-c
			handlersMutex.Lock()
			defer handlersMutex.Unlock()
			for _, fn := range handlers {
				fn()
			}
			os.Exit(0)
		}()
	})
}
