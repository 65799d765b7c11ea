//go:build windows

package trash

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modShell32           = syscall.NewLazyDLL("shell32.dll")
	procSHFileOperationW = modShell32.NewProc("SHFileOperationW")
)

const (
	foDelete = 0x0003

	fofSilent         = 0x0004
	fofNoConfirmation = 0x0010
	fofAllowUndo      = 0x0040
	fofNoErrorUI      = 0x0400
)

// SHFileOperationW result codes that are not Win32 errors.
const (
	deOpCancelled     = 0x75
	deAccessDeniedSrc = 0x78
	deInvalidFiles    = 0x7C
	deErrorOnDest     = 0x402
)

// shellError converts an SHFileOperationW return value to a Win32 errno.
// Codes below the DE_* range are already Win32 errors.
func shellError(ret uintptr) syscall.Errno {
	switch ret {
	case deInvalidFiles, deErrorOnDest:
		return windows.ERROR_FILE_NOT_FOUND
	case deAccessDeniedSrc:
		return windows.ERROR_ACCESS_DENIED
	case deOpCancelled:
		return windows.ERROR_OPERATION_ABORTED
	}
	return syscall.Errno(ret)
}

// shFileOpStruct mirrors the Windows SHFILEOPSTRUCTW struct.
type shFileOpStruct struct {
	hwnd                  uintptr
	wFunc                 uint32
	pFrom                 *uint16
	pTo                   *uint16
	fFlags                uint16
	fAnyOperationsAborted int32
	hNameMappings         uintptr
	lpszProgressTitle     *uint16
}

// move sends path to the Recycle Bin via SHFileOperationW with FOF_ALLOWUNDO.
func move(path string) error {
	from, err := syscall.UTF16FromString(path)
	if err != nil {
		return err
	}
	// pFrom is a double-NUL terminated list.
	from = append(from, 0)

	op := shFileOpStruct{
		wFunc:  foDelete,
		pFrom:  &from[0],
		fFlags: fofAllowUndo | fofNoConfirmation | fofSilent | fofNoErrorUI,
	}

	ret, _, _ := procSHFileOperationW.Call(uintptr(unsafe.Pointer(&op)))
	if ret != 0 {
		return &os.PathError{Op: "trash", Path: path, Err: shellError(ret)}
	}
	if op.fAnyOperationsAborted != 0 {
		return &os.PathError{Op: "trash", Path: path, Err: windows.ERROR_OPERATION_ABORTED}
	}
	return nil
}
