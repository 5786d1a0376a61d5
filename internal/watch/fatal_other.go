//go:build !unix

package watch

func isFatalFsnotifyError(error) bool {
	return false
}
