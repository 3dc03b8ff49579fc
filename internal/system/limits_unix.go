//go:build unix

package system

import (
	"fmt"
	"log"

	"golang.org/x/sys/unix"
)

// InitResourceLimits raises the soft open-file limit: every worker keeps an
// image and a label file open at once.
func InitResourceLimits() {
	var rLimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}
	if rLimit.Cur >= 2048 {
		return
	}

	rLimit.Cur = min(2048, rLimit.Max)
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
		return
	}
	fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
}
