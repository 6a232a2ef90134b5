//go:build linux || darwin

package odpi

import (
	"unsafe"

	"github.com/sqlsqrt/sqlsqrt/driver"
)

// odpiDriver forwards every call to the loaded shared library. It holds no
// state of its own; all state lives behind the native handles.
type odpiDriver struct{}

func (odpiDriver) ContextCreate(major, minor int) (driver.Handle, driver.ErrorInfo, driver.Status) {
	var (
		ctx  uintptr
		info cErrorInfo
	)
	st := dpiContext_createWithParams(uint32(major), uint32(minor), nil,
		unsafe.Pointer(&ctx), unsafe.Pointer(&info))
	if st != int32(driver.StatusOK) {
		return 0, info.toDriver(), driver.Status(st)
	}
	return driver.Handle(ctx), driver.ErrorInfo{}, driver.StatusOK
}

func (odpiDriver) ContextDestroy(ctx driver.Handle) driver.Status {
	return driver.Status(dpiContext_destroy(uintptr(ctx)))
}

func (odpiDriver) ContextGetError(ctx driver.Handle) driver.ErrorInfo {
	var info cErrorInfo
	dpiContext_getError(uintptr(ctx), unsafe.Pointer(&info))
	return info.toDriver()
}

func (odpiDriver) PoolCreate(ctx driver.Handle, username, password, connString string) (driver.Handle, driver.Status) {
	var pool uintptr
	st := dpiPool_create(uintptr(ctx),
		username, uint32(len(username)),
		password, uint32(len(password)),
		connString, uint32(len(connString)),
		nil, nil, unsafe.Pointer(&pool))
	return driver.Handle(pool), driver.Status(st)
}

func (odpiDriver) PoolAcquireConn(pool driver.Handle) (driver.Handle, driver.Status) {
	var conn uintptr
	st := dpiPool_acquireConnection(uintptr(pool), 0, 0, 0, 0, nil, unsafe.Pointer(&conn))
	return driver.Handle(conn), driver.Status(st)
}

func (odpiDriver) PoolRelease(pool driver.Handle) driver.Status {
	return driver.Status(dpiPool_release(uintptr(pool)))
}

func (odpiDriver) ConnCreate(ctx driver.Handle, username, password, connString string) (driver.Handle, driver.Status) {
	var conn uintptr
	st := dpiConn_create(uintptr(ctx),
		username, uint32(len(username)),
		password, uint32(len(password)),
		connString, uint32(len(connString)),
		nil, nil, unsafe.Pointer(&conn))
	return driver.Handle(conn), driver.Status(st)
}

func (odpiDriver) ConnAddRef(conn driver.Handle) driver.Status {
	return driver.Status(dpiConn_addRef(uintptr(conn)))
}

func (odpiDriver) ConnRelease(conn driver.Handle) driver.Status {
	return driver.Status(dpiConn_release(uintptr(conn)))
}

func (odpiDriver) ConnCommit(conn driver.Handle) driver.Status {
	return driver.Status(dpiConn_commit(uintptr(conn)))
}

func (odpiDriver) ConnPrepareStmt(conn driver.Handle, sql string) (driver.Handle, driver.Status) {
	var stmt uintptr
	st := dpiConn_prepareStmt(uintptr(conn), 0, sql, uint32(len(sql)), 0, 0, unsafe.Pointer(&stmt))
	return driver.Handle(stmt), driver.Status(st)
}

func (odpiDriver) ConnNewVar(conn driver.Handle, oracleType driver.OracleType, nativeType driver.NativeType,
	maxArraySize uint32, size uint32, sizeIsBytes bool, isArray bool,
	objType driver.Handle) (driver.Handle, []driver.Data, driver.Status) {

	var (
		v    uintptr
		data uintptr
	)
	st := dpiConn_newVar(uintptr(conn), uint32(oracleType), uint32(nativeType),
		maxArraySize, size, cBool(sizeIsBytes), cBool(isArray), uintptr(objType),
		unsafe.Pointer(&v), unsafe.Pointer(&data))
	if driver.Status(st) != driver.StatusOK {
		return 0, nil, driver.Status(st)
	}

	// The native library hands back one contiguous array of value structs
	// owned by the variable.
	slots := make([]driver.Data, maxArraySize)
	for i := range slots {
		slots[i] = driver.Data(data + uintptr(i)*unsafe.Sizeof(cData{}))
	}
	return driver.Handle(v), slots, driver.StatusOK
}

func (odpiDriver) StmtAddRef(stmt driver.Handle) driver.Status {
	return driver.Status(dpiStmt_addRef(uintptr(stmt)))
}

func (odpiDriver) StmtRelease(stmt driver.Handle) driver.Status {
	return driver.Status(dpiStmt_release(uintptr(stmt)))
}

func (odpiDriver) StmtExecute(stmt driver.Handle) driver.Status {
	return driver.Status(dpiStmt_execute(uintptr(stmt), modeExecDefault, nil))
}

func (odpiDriver) StmtFetch(stmt driver.Handle) (bool, uint32, driver.Status) {
	var (
		found    int32
		rowIndex uint32
	)
	st := dpiStmt_fetch(uintptr(stmt), unsafe.Pointer(&found), unsafe.Pointer(&rowIndex))
	return found != 0, rowIndex, driver.Status(st)
}

func (odpiDriver) StmtNumQueryColumns(stmt driver.Handle) (uint32, driver.Status) {
	var n uint32
	st := dpiStmt_getNumQueryColumns(uintptr(stmt), unsafe.Pointer(&n))
	return n, driver.Status(st)
}

func (odpiDriver) StmtQueryInfo(stmt driver.Handle, pos uint32) (driver.QueryInfo, driver.Status) {
	var info cQueryInfo
	st := dpiStmt_getQueryInfo(uintptr(stmt), pos, unsafe.Pointer(&info))
	if driver.Status(st) != driver.StatusOK {
		return driver.QueryInfo{}, driver.Status(st)
	}
	return driver.QueryInfo{
		Name:     goString(info.name, info.nameLength),
		TypeInfo: info.typeInfo.toDriver(),
		NullOK:   info.nullOk != 0,
	}, driver.StatusOK
}

func (odpiDriver) StmtQueryValue(stmt driver.Handle, pos uint32) (driver.NativeType, driver.Data, driver.Status) {
	var (
		typ  uint32
		data uintptr
	)
	st := dpiStmt_getQueryValue(uintptr(stmt), pos, unsafe.Pointer(&typ), unsafe.Pointer(&data))
	return driver.NativeType(typ), driver.Data(data), driver.Status(st)
}

func (odpiDriver) StmtBindByPos(stmt driver.Handle, pos uint32, v driver.Handle) driver.Status {
	return driver.Status(dpiStmt_bindByPos(uintptr(stmt), pos, uintptr(v)))
}

func (odpiDriver) VarAddRef(v driver.Handle) driver.Status {
	return driver.Status(dpiVar_addRef(uintptr(v)))
}

func (odpiDriver) VarRelease(v driver.Handle) driver.Status {
	return driver.Status(dpiVar_release(uintptr(v)))
}

func (odpiDriver) VarCopyData(dst driver.Handle, destPos uint32, src driver.Handle, srcPos uint32) driver.Status {
	return driver.Status(dpiVar_copyData(uintptr(dst), destPos, uintptr(src), srcPos))
}

func (odpiDriver) VarSetFromBytes(v driver.Handle, pos uint32, value []byte) driver.Status {
	var p *byte
	if len(value) > 0 {
		p = &value[0]
	}
	return driver.Status(dpiVar_setFromBytes(uintptr(v), pos, p, uint32(len(value))))
}

func (odpiDriver) VarSetFromStmt(v driver.Handle, pos uint32, stmt driver.Handle) driver.Status {
	return driver.Status(dpiVar_setFromStmt(uintptr(v), pos, uintptr(stmt)))
}

func (odpiDriver) VarSetFromRowid(v driver.Handle, pos uint32, rowid driver.Handle) driver.Status {
	return driver.Status(dpiVar_setFromRowid(uintptr(v), pos, uintptr(rowid)))
}

func (odpiDriver) VarNumElements(v driver.Handle) (uint32, driver.Status) {
	var n uint32
	st := dpiVar_getNumElementsInArray(uintptr(v), unsafe.Pointer(&n))
	return n, driver.Status(st)
}

func (odpiDriver) VarSizeInBytes(v driver.Handle) (uint32, driver.Status) {
	var n uint32
	st := dpiVar_getSizeInBytes(uintptr(v), unsafe.Pointer(&n))
	return n, driver.Status(st)
}

func (odpiDriver) VarReturnedData(v driver.Handle, pos uint32) ([]driver.Data, driver.Status) {
	var (
		n    uint32
		data uintptr
	)
	st := dpiVar_getReturnedData(uintptr(v), pos, unsafe.Pointer(&n), unsafe.Pointer(&data))
	if driver.Status(st) != driver.StatusOK {
		return nil, driver.Status(st)
	}
	slots := make([]driver.Data, n)
	for i := range slots {
		slots[i] = driver.Data(data + uintptr(i)*unsafe.Sizeof(cData{}))
	}
	return slots, driver.StatusOK
}

func (odpiDriver) RowidAddRef(rowid driver.Handle) driver.Status {
	return driver.Status(dpiRowid_addRef(uintptr(rowid)))
}

func (odpiDriver) RowidRelease(rowid driver.Handle) driver.Status {
	return driver.Status(dpiRowid_release(uintptr(rowid)))
}

func (odpiDriver) RowidStringValue(rowid driver.Handle) (string, driver.Status) {
	var (
		p uintptr
		n uint32
	)
	st := dpiRowid_getStringValue(uintptr(rowid), unsafe.Pointer(&p), unsafe.Pointer(&n))
	if driver.Status(st) != driver.StatusOK {
		return "", driver.Status(st)
	}
	return goString(p, n), driver.StatusOK
}

func (odpiDriver) DataIsNull(d driver.Data) bool {
	return dataPtr(d).isNull != 0
}

func (odpiDriver) DataGetBool(d driver.Data) bool {
	return dataPtr(d).bool()
}

func (odpiDriver) DataGetInt64(d driver.Data) int64 {
	return dataPtr(d).int64()
}

func (odpiDriver) DataGetUint64(d driver.Data) uint64 {
	return dataPtr(d).uint64()
}

func (odpiDriver) DataGetFloat(d driver.Data) float32 {
	return dataPtr(d).float32()
}

func (odpiDriver) DataGetDouble(d driver.Data) float64 {
	return dataPtr(d).float64()
}

func (odpiDriver) DataGetBytes(d driver.Data) []byte {
	return dataPtr(d).bytes()
}

func (odpiDriver) DataGetTimestamp(d driver.Data) *driver.Timestamp {
	return dataPtr(d).timestamp()
}

func (odpiDriver) DataGetRowid(d driver.Data) driver.Handle {
	return dataPtr(d).handle()
}

func cBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
