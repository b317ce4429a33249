//go:build windows

package util

import (
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
)

var shells = []string{
	"cmd.exe",
	"powershell.exe",
	"pwsh.exe",
	"wt.exe",
	"conhost.exe",
	"windowsterminal.exe",
}

// LaunchedFromExplorer reports whether the process was started from the
// Windows shell rather than a console.
func LaunchedFromExplorer() bool {
	if hwnd, _, _ := procGetConsoleWindow.Call(); hwnd == 0 {
		return true
	}
	parent := strings.ToLower(parentProcessName())
	for _, s := range shells {
		if parent == s {
			return false
		}
	}
	return parent == "explorer.exe"
}

func parentProcessName() string {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snap)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))

	find := func(match func(*windows.ProcessEntry32) bool) bool {
		if err := windows.Process32First(snap, &pe); err != nil {
			return false
		}
		for {
			if match(&pe) {
				return true
			}
			if err := windows.Process32Next(snap, &pe); err != nil {
				return false
			}
		}
	}

	pid := uint32(os.Getpid())
	if !find(func(p *windows.ProcessEntry32) bool { return p.ProcessID == pid }) {
		return ""
	}
	ppid := pe.ParentProcessID
	if ppid == 0 || !find(func(p *windows.ProcessEntry32) bool { return p.ProcessID == ppid }) {
		return ""
	}
	return windows.UTF16ToString(pe.ExeFile[:])
}
