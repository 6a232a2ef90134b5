package mock

import (
	"fmt"

	"github.com/sqlsqrt/sqlsqrt/driver"
)

// ContextCreate initializes a scripted context. The version handshake is
// honored: requesting anything other than the declared interface version
// fails the same way a too-old native library would.
func (m *Mock) ContextCreate(major, minor int) (driver.Handle, driver.ErrorInfo, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.RejectVersion || major != driver.MajorVersion || minor != driver.MinorVersion {
		return 0, driver.ErrorInfo{
			Code:    -6000,
			Message: "version not supported by the driver",
			FnName:  "ContextCreate",
		}, driver.StatusFailure
	}
	h := m.newHandle()
	m.objects[h] = &object{kind: kindContext, refs: 1, ctx: h}
	return h, driver.ErrorInfo{}, driver.StatusOK
}

func (m *Mock) ContextDestroy(ctx driver.Handle) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mustObject(ctx, kindContext, "ContextDestroy")
	if m.cfg.DestroyError != nil {
		return m.fail(ctx, *m.cfg.DestroyError)
	}
	m.releaseLocked(ctx, kindContext, "ContextDestroy")
	return driver.StatusOK
}

func (m *Mock) ContextGetError(ctx driver.Handle) driver.ErrorInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr[ctx]
}

func (m *Mock) PoolCreate(ctx driver.Handle, username, password, connString string) (driver.Handle, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mustObject(ctx, kindContext, "PoolCreate")
	if st, failed := m.takeFail(ctx, "PoolCreate"); failed {
		return 0, st
	}
	h := m.newHandle()
	m.objects[h] = &object{kind: kindPool, refs: 1, ctx: ctx}
	return h, driver.StatusOK
}

func (m *Mock) PoolAcquireConn(pool driver.Handle) (driver.Handle, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(pool, kindPool, "PoolAcquireConn")
	if m.cfg.ConnectError != nil {
		return 0, m.fail(obj.ctx, *m.cfg.ConnectError)
	}
	if st, failed := m.takeFail(obj.ctx, "PoolAcquireConn"); failed {
		return 0, st
	}
	h := m.newHandle()
	m.objects[h] = &object{kind: kindConn, refs: 1, ctx: obj.ctx}
	return h, driver.StatusOK
}

func (m *Mock) PoolRelease(pool driver.Handle) driver.Status {
	return m.release(pool, kindPool, "PoolRelease")
}

func (m *Mock) ConnCreate(ctx driver.Handle, username, password, connString string) (driver.Handle, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mustObject(ctx, kindContext, "ConnCreate")
	if m.cfg.ConnectError != nil {
		return 0, m.fail(ctx, *m.cfg.ConnectError)
	}
	if st, failed := m.takeFail(ctx, "ConnCreate"); failed {
		return 0, st
	}
	h := m.newHandle()
	m.objects[h] = &object{kind: kindConn, refs: 1, ctx: ctx}
	return h, driver.StatusOK
}

func (m *Mock) ConnAddRef(conn driver.Handle) driver.Status {
	return m.addRef(conn, kindConn, "ConnAddRef")
}

func (m *Mock) ConnRelease(conn driver.Handle) driver.Status {
	return m.release(conn, kindConn, "ConnRelease")
}

func (m *Mock) ConnCommit(conn driver.Handle) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(conn, kindConn, "ConnCommit")
	if st, failed := m.takeFail(obj.ctx, "ConnCommit"); failed {
		return st
	}
	m.Commits++
	return driver.StatusOK
}

func (m *Mock) ConnPrepareStmt(conn driver.Handle, sql string) (driver.Handle, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(conn, kindConn, "ConnPrepareStmt")
	if st, failed := m.takeFail(obj.ctx, "ConnPrepareStmt"); failed {
		return 0, st
	}
	script, ok := m.cfg.Queries[sql]
	if !ok {
		return 0, m.failf(obj.ctx, "ConnPrepareStmt", "ORA-00900: invalid SQL statement")
	}
	h := m.newHandle()
	m.objects[h] = &object{
		kind:   kindStmt,
		refs:   1,
		ctx:    obj.ctx,
		sql:    sql,
		script: script,
		binds:  make(map[uint32]driver.Handle),
	}
	return h, driver.StatusOK
}

func (m *Mock) ConnNewVar(conn driver.Handle, oracleType driver.OracleType, nativeType driver.NativeType,
	maxArraySize uint32, size uint32, sizeIsBytes bool, isArray bool,
	objType driver.Handle) (driver.Handle, []driver.Data, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(conn, kindConn, "ConnNewVar")
	if st, failed := m.takeFail(obj.ctx, "ConnNewVar"); failed {
		return 0, nil, st
	}
	if maxArraySize == 0 {
		return 0, nil, m.failf(obj.ctx, "ConnNewVar", "array size of zero is invalid")
	}
	sizeBytes := size
	if !sizeIsBytes {
		// Approximates the driver's expansion of character sizing.
		sizeBytes = size * 4
	}
	v := &object{
		kind:         kindVar,
		refs:         1,
		ctx:          obj.ctx,
		typ:          nativeType,
		maxArraySize: maxArraySize,
		numElements:  maxArraySize,
		sizeBytes:    sizeBytes,
		slots:        make([]driver.Data, maxArraySize),
	}
	for i := range v.slots {
		v.slots[i] = m.newData(nativeType)
	}
	h := m.newHandle()
	m.objects[h] = v
	out := make([]driver.Data, len(v.slots))
	copy(out, v.slots)
	return h, out, driver.StatusOK
}

func (m *Mock) StmtAddRef(stmt driver.Handle) driver.Status {
	return m.addRef(stmt, kindStmt, "StmtAddRef")
}

func (m *Mock) StmtRelease(stmt driver.Handle) driver.Status {
	return m.release(stmt, kindStmt, "StmtRelease")
}

func (m *Mock) StmtExecute(stmt driver.Handle) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(stmt, kindStmt, "StmtExecute")
	if st, failed := m.takeFail(obj.ctx, "StmtExecute"); failed {
		return st
	}
	if obj.script.ExecError != nil {
		return m.fail(obj.ctx, *obj.script.ExecError)
	}
	// Snapshot byte binds so tests can assert what the native layer saw.
	for pos, vh := range obj.binds {
		bound, ok := m.objects[vh]
		if !ok || bound.typ != driver.NativeTypeBytes || len(bound.slots) == 0 {
			continue
		}
		s := m.slots[bound.slots[0]]
		if s.null {
			continue
		}
		m.ExecutedBinds = append(m.ExecutedBinds, BoundBytes{
			SQL:   obj.sql,
			Pos:   pos,
			Value: append([]byte(nil), s.v.([]byte)...),
		})
	}
	obj.executed = true
	obj.exhausted = false
	obj.rowIdx = 0
	if obj.colSlots == nil {
		obj.colSlots = make([]driver.Data, len(obj.script.Columns))
		for i, col := range obj.script.Columns {
			obj.colSlots[i] = m.newData(col.Type)
		}
	}
	return driver.StatusOK
}

func (m *Mock) StmtFetch(stmt driver.Handle) (bool, uint32, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(stmt, kindStmt, "StmtFetch")
	if !obj.executed {
		return false, 0, m.failf(obj.ctx, "StmtFetch", "statement has not been executed")
	}
	if st, failed := m.takeFail(obj.ctx, "StmtFetch"); failed {
		return false, 0, st
	}
	if obj.exhausted || obj.rowIdx >= len(obj.script.Rows) {
		obj.exhausted = true
		return false, 0, driver.StatusOK
	}
	row := obj.script.Rows[obj.rowIdx]
	for i, col := range obj.script.Columns {
		m.writeSlot(obj.colSlots[i], col.Type, row[i])
	}
	obj.rowIdx++
	return true, uint32(obj.rowIdx - 1), driver.StatusOK
}

func (m *Mock) StmtNumQueryColumns(stmt driver.Handle) (uint32, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(stmt, kindStmt, "StmtNumQueryColumns")
	if !obj.executed {
		return 0, m.failf(obj.ctx, "StmtNumQueryColumns", "statement has not been executed")
	}
	return uint32(len(obj.script.Columns)), driver.StatusOK
}

func (m *Mock) StmtQueryInfo(stmt driver.Handle, pos uint32) (driver.QueryInfo, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(stmt, kindStmt, "StmtQueryInfo")
	if !obj.executed {
		return driver.QueryInfo{}, m.failf(obj.ctx, "StmtQueryInfo", "statement has not been executed")
	}
	if pos < 1 || pos > uint32(len(obj.script.Columns)) {
		return driver.QueryInfo{}, m.failf(obj.ctx, "StmtQueryInfo", "position %d is out of range", pos)
	}
	col := obj.script.Columns[pos-1]
	return driver.QueryInfo{
		Name:   col.Name,
		NullOK: col.NullOK,
		TypeInfo: driver.DataTypeInfo{
			OracleType:        col.OracleType,
			DefaultNativeType: col.Type,
		},
	}, driver.StatusOK
}

func (m *Mock) StmtQueryValue(stmt driver.Handle, pos uint32) (driver.NativeType, driver.Data, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(stmt, kindStmt, "StmtQueryValue")
	if !obj.executed {
		return 0, 0, m.failf(obj.ctx, "StmtQueryValue", "statement has not been executed")
	}
	if pos < 1 || pos > uint32(len(obj.script.Columns)) {
		return 0, 0, m.failf(obj.ctx, "StmtQueryValue", "position %d is out of range", pos)
	}
	return obj.script.Columns[pos-1].Type, obj.colSlots[pos-1], driver.StatusOK
}

func (m *Mock) StmtBindByPos(stmt driver.Handle, pos uint32, v driver.Handle) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(stmt, kindStmt, "StmtBindByPos")
	m.mustObject(v, kindVar, "StmtBindByPos")
	if st, failed := m.takeFail(obj.ctx, "StmtBindByPos"); failed {
		return st
	}
	if pos < 1 {
		return m.failf(obj.ctx, "StmtBindByPos", "bind position %d is out of range", pos)
	}
	obj.binds[pos] = v
	m.BindCalls = append(m.BindCalls, BindCall{SQL: obj.sql, Pos: pos, Var: v})
	return driver.StatusOK
}

func (m *Mock) VarAddRef(v driver.Handle) driver.Status {
	return m.addRef(v, kindVar, "VarAddRef")
}

func (m *Mock) VarRelease(v driver.Handle) driver.Status {
	return m.release(v, kindVar, "VarRelease")
}

func (m *Mock) VarCopyData(dst driver.Handle, destPos uint32, src driver.Handle, srcPos uint32) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	dstObj := m.mustObject(dst, kindVar, "VarCopyData")
	srcObj := m.mustObject(src, kindVar, "VarCopyData")
	if st, failed := m.takeFail(dstObj.ctx, "VarCopyData"); failed {
		return st
	}
	if dstObj.typ != srcObj.typ {
		return m.failf(dstObj.ctx, "VarCopyData", "variable types %s and %s are not compatible", dstObj.typ, srcObj.typ)
	}
	if destPos >= dstObj.maxArraySize || srcPos >= srcObj.maxArraySize {
		return m.failf(dstObj.ctx, "VarCopyData", "element position is out of range")
	}
	from := m.slots[srcObj.slots[srcPos]]
	to := m.slots[dstObj.slots[destPos]]
	to.null = from.null
	to.v = from.v
	return driver.StatusOK
}

func (m *Mock) VarSetFromBytes(v driver.Handle, pos uint32, value []byte) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(v, kindVar, "VarSetFromBytes")
	if st, failed := m.takeFail(obj.ctx, "VarSetFromBytes"); failed {
		return st
	}
	if obj.typ != driver.NativeTypeBytes {
		return m.failf(obj.ctx, "VarSetFromBytes", "variable does not hold bytes")
	}
	if pos >= obj.maxArraySize {
		return m.failf(obj.ctx, "VarSetFromBytes", "element position %d is out of range", pos)
	}
	owned := append([]byte(nil), value...)
	s := m.slots[obj.slots[pos]]
	s.null = false
	s.v = owned
	m.SetBytesCalls = append(m.SetBytesCalls, SetBytesCall{Var: v, Pos: pos, Value: owned})
	return driver.StatusOK
}

func (m *Mock) VarSetFromStmt(v driver.Handle, pos uint32, stmt driver.Handle) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(v, kindVar, "VarSetFromStmt")
	m.mustObject(stmt, kindStmt, "VarSetFromStmt")
	if obj.typ != driver.NativeTypeStmt {
		return m.failf(obj.ctx, "VarSetFromStmt", "variable does not hold statements")
	}
	if pos >= obj.maxArraySize {
		return m.failf(obj.ctx, "VarSetFromStmt", "element position %d is out of range", pos)
	}
	s := m.slots[obj.slots[pos]]
	s.null = false
	s.v = stmt
	return driver.StatusOK
}

func (m *Mock) VarSetFromRowid(v driver.Handle, pos uint32, rowid driver.Handle) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(v, kindVar, "VarSetFromRowid")
	m.mustObject(rowid, kindRowid, "VarSetFromRowid")
	if obj.typ != driver.NativeTypeRowid {
		return m.failf(obj.ctx, "VarSetFromRowid", "variable does not hold row ids")
	}
	if pos >= obj.maxArraySize {
		return m.failf(obj.ctx, "VarSetFromRowid", "element position %d is out of range", pos)
	}
	s := m.slots[obj.slots[pos]]
	s.null = false
	s.v = rowid
	return driver.StatusOK
}

func (m *Mock) VarNumElements(v driver.Handle) (uint32, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(v, kindVar, "VarNumElements")
	return obj.numElements, driver.StatusOK
}

func (m *Mock) VarSizeInBytes(v driver.Handle) (uint32, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(v, kindVar, "VarSizeInBytes")
	return obj.sizeBytes, driver.StatusOK
}

func (m *Mock) VarReturnedData(v driver.Handle, pos uint32) ([]driver.Data, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(v, kindVar, "VarReturnedData")
	if st, failed := m.takeFail(obj.ctx, "VarReturnedData"); failed {
		return nil, st
	}
	out := make([]driver.Data, obj.numElements)
	copy(out, obj.slots[:obj.numElements])
	return out, driver.StatusOK
}

func (m *Mock) RowidAddRef(rowid driver.Handle) driver.Status {
	return m.addRef(rowid, kindRowid, "RowidAddRef")
}

func (m *Mock) RowidRelease(rowid driver.Handle) driver.Status {
	return m.release(rowid, kindRowid, "RowidRelease")
}

func (m *Mock) RowidStringValue(rowid driver.Handle) (string, driver.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(rowid, kindRowid, "RowidStringValue")
	return obj.rowidText, driver.StatusOK
}

func (m *Mock) DataIsNull(d driver.Data) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataIsNull").null
}

func (m *Mock) DataGetBool(d driver.Data) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataGetBool").v.(bool)
}

func (m *Mock) DataGetInt64(d driver.Data) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataGetInt64").v.(int64)
}

func (m *Mock) DataGetUint64(d driver.Data) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataGetUint64").v.(uint64)
}

func (m *Mock) DataGetFloat(d driver.Data) float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataGetFloat").v.(float32)
}

func (m *Mock) DataGetDouble(d driver.Data) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataGetDouble").v.(float64)
}

func (m *Mock) DataGetBytes(d driver.Data) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataGetBytes").v.([]byte)
}

func (m *Mock) DataGetTimestamp(d driver.Data) *driver.Timestamp {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := m.mustSlot(d, "DataGetTimestamp").v.(driver.Timestamp)
	return &ts
}

func (m *Mock) DataGetRowid(d driver.Data) driver.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mustSlot(d, "DataGetRowid").v.(driver.Handle)
}

// writeSlot stores one scripted row value into a column slot, releasing any
// rowid the slot held from the previous row.
func (m *Mock) writeSlot(d driver.Data, typ driver.NativeType, value any) {
	s := m.mustSlot(d, "writeSlot")
	if s.typ == driver.NativeTypeRowid && !s.null {
		if rh, ok := s.v.(driver.Handle); ok {
			m.releaseLocked(rh, kindRowid, "writeSlot")
		}
	}
	if value == nil {
		s.null = true
		s.v = nil
		return
	}
	s.null = false
	switch typ {
	case driver.NativeTypeBoolean:
		s.v = value.(bool)
	case driver.NativeTypeInt64:
		switch n := value.(type) {
		case int:
			s.v = int64(n)
		case int64:
			s.v = n
		default:
			panic(fmt.Sprintf("mock: bad scripted value %T for int64 column", value))
		}
	case driver.NativeTypeUint64:
		s.v = value.(uint64)
	case driver.NativeTypeFloat:
		s.v = value.(float32)
	case driver.NativeTypeDouble:
		s.v = value.(float64)
	case driver.NativeTypeBytes:
		switch b := value.(type) {
		case []byte:
			s.v = append([]byte(nil), b...)
		case string:
			s.v = []byte(b)
		default:
			panic(fmt.Sprintf("mock: bad scripted value %T for bytes column", value))
		}
	case driver.NativeTypeTimestamp:
		s.v = value.(driver.Timestamp)
	case driver.NativeTypeRowid:
		text := value.(string)
		h := m.newHandle()
		m.objects[h] = &object{kind: kindRowid, refs: 1, rowidText: text}
		s.v = h
	default:
		panic(fmt.Sprintf("mock: unsupported scripted column type %s", typ))
	}
}
