//go:build linux || darwin

package odpi

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/sqlsqrt/sqlsqrt/driver"
)

// EnvLibPath names the environment variable that overrides shared-library
// resolution.
const EnvLibPath = "ODPIC_LIB_PATH"

const modeExecDefault uint32 = 0

var (
	dpiContext_createWithParams func(major, minor uint32, params unsafe.Pointer, ctx unsafe.Pointer, errInfo unsafe.Pointer) int32
	dpiContext_destroy          func(ctx uintptr) int32
	dpiContext_getError         func(ctx uintptr, errInfo unsafe.Pointer)

	dpiPool_create            func(ctx uintptr, user string, userLen uint32, pass string, passLen uint32, connStr string, connStrLen uint32, commonParams, createParams unsafe.Pointer, pool unsafe.Pointer) int32
	dpiPool_acquireConnection func(pool uintptr, user uintptr, userLen uint32, pass uintptr, passLen uint32, params unsafe.Pointer, conn unsafe.Pointer) int32
	dpiPool_release           func(pool uintptr) int32

	dpiConn_create      func(ctx uintptr, user string, userLen uint32, pass string, passLen uint32, connStr string, connStrLen uint32, commonParams, createParams unsafe.Pointer, conn unsafe.Pointer) int32
	dpiConn_addRef      func(conn uintptr) int32
	dpiConn_release     func(conn uintptr) int32
	dpiConn_commit      func(conn uintptr) int32
	dpiConn_prepareStmt func(conn uintptr, scrollable int32, sql string, sqlLen uint32, tag uintptr, tagLen uint32, stmt unsafe.Pointer) int32
	dpiConn_newVar      func(conn uintptr, oracleType, nativeType, maxArraySize, size uint32, sizeIsBytes, isArray int32, objType uintptr, v unsafe.Pointer, data unsafe.Pointer) int32

	dpiStmt_addRef             func(stmt uintptr) int32
	dpiStmt_release            func(stmt uintptr) int32
	dpiStmt_execute            func(stmt uintptr, mode uint32, numQueryColumns unsafe.Pointer) int32
	dpiStmt_fetch              func(stmt uintptr, found unsafe.Pointer, bufferRowIndex unsafe.Pointer) int32
	dpiStmt_getNumQueryColumns func(stmt uintptr, numColumns unsafe.Pointer) int32
	dpiStmt_getQueryInfo       func(stmt uintptr, pos uint32, info unsafe.Pointer) int32
	dpiStmt_getQueryValue      func(stmt uintptr, pos uint32, nativeTypeNum unsafe.Pointer, data unsafe.Pointer) int32
	dpiStmt_bindByPos          func(stmt uintptr, pos uint32, v uintptr) int32

	dpiVar_addRef                func(v uintptr) int32
	dpiVar_release               func(v uintptr) int32
	dpiVar_copyData              func(v uintptr, pos uint32, src uintptr, srcPos uint32) int32
	dpiVar_setFromBytes          func(v uintptr, pos uint32, value *byte, valueLen uint32) int32
	dpiVar_setFromStmt           func(v uintptr, pos uint32, stmt uintptr) int32
	dpiVar_setFromRowid          func(v uintptr, pos uint32, rowid uintptr) int32
	dpiVar_getNumElementsInArray func(v uintptr, num unsafe.Pointer) int32
	dpiVar_getSizeInBytes        func(v uintptr, size unsafe.Pointer) int32
	dpiVar_getReturnedData       func(v uintptr, pos uint32, numElements unsafe.Pointer, data unsafe.Pointer) int32

	dpiRowid_addRef         func(rowid uintptr) int32
	dpiRowid_release        func(rowid uintptr) int32
	dpiRowid_getStringValue func(rowid uintptr, value unsafe.Pointer, valueLen unsafe.Pointer) int32
)

var loadOnce struct {
	sync.Once
	d   driver.Driver
	err error
}

// Load resolves the ODPI-C shared library and returns a Driver bound to it.
// The library is loaded at most once per process.
func Load() (driver.Driver, error) {
	loadOnce.Do(func() {
		handle, err := openLibrary()
		if err != nil {
			loadOnce.err = err
			return
		}
		register(handle)
		loadOnce.d = &odpiDriver{}
	})
	return loadOnce.d, loadOnce.err
}

func openLibrary() (uintptr, error) {
	var names []string
	if p := os.Getenv(EnvLibPath); p != "" {
		names = []string{p}
	} else if runtime.GOOS == "darwin" {
		names = []string{"libodpic.4.dylib", "libodpic.dylib"}
	} else {
		names = []string{"libodpic.so.4", "libodpic.so"}
	}

	var firstErr error
	for _, name := range names {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return h, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, fmt.Errorf("loading ODPI-C library: %w", firstErr)
}

func register(handle uintptr) {
	purego.RegisterLibFunc(&dpiContext_createWithParams, handle, "dpiContext_createWithParams")
	purego.RegisterLibFunc(&dpiContext_destroy, handle, "dpiContext_destroy")
	purego.RegisterLibFunc(&dpiContext_getError, handle, "dpiContext_getError")
	purego.RegisterLibFunc(&dpiPool_create, handle, "dpiPool_create")
	purego.RegisterLibFunc(&dpiPool_acquireConnection, handle, "dpiPool_acquireConnection")
	purego.RegisterLibFunc(&dpiPool_release, handle, "dpiPool_release")
	purego.RegisterLibFunc(&dpiConn_create, handle, "dpiConn_create")
	purego.RegisterLibFunc(&dpiConn_addRef, handle, "dpiConn_addRef")
	purego.RegisterLibFunc(&dpiConn_release, handle, "dpiConn_release")
	purego.RegisterLibFunc(&dpiConn_commit, handle, "dpiConn_commit")
	purego.RegisterLibFunc(&dpiConn_prepareStmt, handle, "dpiConn_prepareStmt")
	purego.RegisterLibFunc(&dpiConn_newVar, handle, "dpiConn_newVar")
	purego.RegisterLibFunc(&dpiStmt_addRef, handle, "dpiStmt_addRef")
	purego.RegisterLibFunc(&dpiStmt_release, handle, "dpiStmt_release")
	purego.RegisterLibFunc(&dpiStmt_execute, handle, "dpiStmt_execute")
	purego.RegisterLibFunc(&dpiStmt_fetch, handle, "dpiStmt_fetch")
	purego.RegisterLibFunc(&dpiStmt_getNumQueryColumns, handle, "dpiStmt_getNumQueryColumns")
	purego.RegisterLibFunc(&dpiStmt_getQueryInfo, handle, "dpiStmt_getQueryInfo")
	purego.RegisterLibFunc(&dpiStmt_getQueryValue, handle, "dpiStmt_getQueryValue")
	purego.RegisterLibFunc(&dpiStmt_bindByPos, handle, "dpiStmt_bindByPos")
	purego.RegisterLibFunc(&dpiVar_addRef, handle, "dpiVar_addRef")
	purego.RegisterLibFunc(&dpiVar_release, handle, "dpiVar_release")
	purego.RegisterLibFunc(&dpiVar_copyData, handle, "dpiVar_copyData")
	purego.RegisterLibFunc(&dpiVar_setFromBytes, handle, "dpiVar_setFromBytes")
	purego.RegisterLibFunc(&dpiVar_setFromStmt, handle, "dpiVar_setFromStmt")
	purego.RegisterLibFunc(&dpiVar_setFromRowid, handle, "dpiVar_setFromRowid")
	purego.RegisterLibFunc(&dpiVar_getNumElementsInArray, handle, "dpiVar_getNumElementsInArray")
	purego.RegisterLibFunc(&dpiVar_getSizeInBytes, handle, "dpiVar_getSizeInBytes")
	purego.RegisterLibFunc(&dpiVar_getReturnedData, handle, "dpiVar_getReturnedData")
	purego.RegisterLibFunc(&dpiRowid_addRef, handle, "dpiRowid_addRef")
	purego.RegisterLibFunc(&dpiRowid_release, handle, "dpiRowid_release")
	purego.RegisterLibFunc(&dpiRowid_getStringValue, handle, "dpiRowid_getStringValue")
}
