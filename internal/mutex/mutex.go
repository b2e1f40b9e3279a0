package mutex

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

func New(name string) *Mutex {
	mu := &Mutex{name: name}
	mu.Printf("--- begin ---")
	return mu
}

// Mutex wraps sync.Mutex, providing these additional features:
//   - You can `defer Lock(...).Unlock()` in a single line
//   - If `debug` is true, lock/unlock info is logged to mutex.log,
//     tagged with the mutex's name and the caller-supplied label.
type Mutex struct {
	name string
	mu   sync.Mutex
}

var debug = false
var logfile *os.File

func init() {
	if !debug {
		return
	}
	f, err := os.Create("mutex.log")
	if err != nil {
		panic(err)
	}
	logfile = f
}

func (mu *Mutex) Lock(label string) *Mutex {
	mu.Printf("%s seeks lock", label)
	mu.mu.Lock()
	mu.Printf("%s receives lock", label)

	return mu
}

func (mu *Mutex) Unlock() {
	mu.Printf("releases lock")
	mu.mu.Unlock()
}

func (mu *Mutex) Printf(s string, args ...interface{}) {
	if debug {
		s = strings.TrimSpace(s)
		d := time.Now().Format(time.StampNano)
		prefix := fmt.Sprintf("%s [%s] ", d, mu.name)
		fmt.Fprintf(logfile, prefix+s+"\n", args...)
	}
}
