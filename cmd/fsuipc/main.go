// Command fsuipc talks to a running FSUIPC server: it reports versions,
// reads and writes single offsets and polls the common aircraft values.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	code := 0
	if err := newRootCmd().Execute(); err != nil {
		code = 1
	}
	// runs the registered teardown: session close and recorder flush
	atexit.Exit(code)
}
