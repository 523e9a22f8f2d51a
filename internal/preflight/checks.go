package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"moviefmt/internal/identification/tmdb"
)

// Pinger is satisfied by the TMDB client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckTMDB verifies that the API is reachable and the token is accepted. It
// uses a 10-second timeout.
func CheckTMDB(ctx context.Context, api Pinger) Result {
	const name = "TMDB API"
	if api == nil {
		return Result{Name: name, Detail: "client not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := api.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckReadable verifies that path is a directory that can be listed.
func CheckReadable(name, path string) Result {
	if result, ok := checkDirectory(name, path); !ok {
		return result
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckWritable verifies that path, or its nearest existing parent when path
// does not exist yet, is a writable directory.
func CheckWritable(name, path string) Result {
	target := path
	for {
		if _, err := os.Stat(target); err == nil || !os.IsNotExist(err) {
			break
		}
		parent := filepath.Dir(target)
		if parent == target {
			break
		}
		target = parent
	}
	if result, ok := checkDirectory(name, target); !ok {
		return result
	}
	if err := unix.Access(target, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", target, err)}
	}
	if target != path {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created in %s)", path, target)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func checkDirectory(name, path string) (Result, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}, false
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}, false
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}, false
	}
	return Result{}, true
}

// summarizeError produces a human-readable summary for API check failures.
func summarizeError(err error) string {
	switch {
	case tmdb.IsStatus(err, http.StatusUnauthorized):
		return "auth failed (invalid api token)"
	case errors.Is(err, context.DeadlineExceeded):
		return "check timed out (TMDB unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (TMDB unreachable)"
	}
	return err.Error()
}
