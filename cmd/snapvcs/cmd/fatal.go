package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/oneconcern/snapvcs/pkg/core/status"
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit
)

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
		return
	}
	if errors.Is(err, status.ErrTypeChanged) {
		// nothing goes through until the path has its committed type again
		err = fmt.Errorf("%w (move this path aside or restore it as committed, then retry)", err)
	}
	logFatalf("%v", fmt.Errorf(msg+": %w", err))
}
