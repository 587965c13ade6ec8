package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("PRESSDESK_TEST_MODE") == "" {
			_ = os.Setenv("PRESSDESK_TEST_MODE", "1")
		}
	})
}
