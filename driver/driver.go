package driver

// Interface version requested when creating a context. The native library
// refuses to initialize when it cannot honor this version.
const (
	MajorVersion = 4
	MinorVersion = 1
)

// MaxBytesSize is the largest single byte value the native protocol accepts,
// 1 GiB minus 2 bytes. Larger values must be rejected before the native call.
const MaxBytesSize = 1073741822

// Handle is an opaque token for a native resource. The zero value is never a
// live handle.
type Handle uintptr

// Data is a non-owning token for one native value slot, either a live query
// column buffer or one element of a variable array. Its validity is tied to
// the owning statement's current row or the owning variable's lifetime.
type Data uintptr

// Status is the C-style result code returned by every fallible native call.
type Status int32

// Native status codes.
const (
	StatusOK      Status = 0
	StatusFailure Status = -1
)

// ErrorInfo is the structured error record reported by the native library,
// fetched either from a call-local output parameter or from the context's
// last-error slot.
type ErrorInfo struct {
	// Code is the native error code (for example ORA-nnnnn).
	Code int32

	// Offset is the parse error offset within the statement text, when known.
	Offset uint32

	// Message is the human-readable native error text.
	Message string

	// FnName names the native function that reported the failure.
	FnName string

	// Action names the internal operation that was in progress.
	Action string

	// SQLState is the five-character SQLSTATE associated with the error.
	SQLState string

	// IsRecoverable reports whether the native library considers the session
	// recoverable after this error.
	IsRecoverable bool
}

// Timestamp is the native calendar value stored in timestamp-typed slots.
type Timestamp struct {
	Year           int16
	Month          uint8
	Day            uint8
	Hour           uint8
	Minute         uint8
	Second         uint8
	FSecond        uint32
	TZHourOffset   int8
	TZMinuteOffset int8
}

// DataTypeInfo describes the database type of one result column.
type DataTypeInfo struct {
	OracleType        OracleType
	DefaultNativeType NativeType
	DBSizeInBytes     uint32
	ClientSizeInBytes uint32
	SizeInChars       uint32
	Precision         int16
	Scale             int8
	FsPrecision       uint8
}

// QueryInfo describes one column of an executed statement's result set.
type QueryInfo struct {
	Name     string
	TypeInfo DataTypeInfo
	NullOK   bool
}

// Driver is the set of native calls the binding layer requires. Every
// fallible call returns a Status; on StatusFailure the error record is
// available through ContextGetError for the owning context, except for
// ContextCreate which reports through its own output record because no
// context exists yet.
//
// Blocking happens inside the native call (connect, acquire, execute, fetch)
// and is opaque to callers; the driver defines its own timeout and retry
// behavior.
type Driver interface {
	// ContextCreate initializes the process-wide native library context at
	// the requested interface version.
	ContextCreate(major, minor int) (Handle, ErrorInfo, Status)

	// ContextDestroy tears down the native library context.
	ContextDestroy(ctx Handle) Status

	// ContextGetError returns the last error recorded for the context.
	ContextGetError(ctx Handle) ErrorInfo

	PoolCreate(ctx Handle, username, password, connString string) (Handle, Status)
	PoolAcquireConn(pool Handle) (Handle, Status)
	PoolRelease(pool Handle) Status

	ConnCreate(ctx Handle, username, password, connString string) (Handle, Status)
	ConnAddRef(conn Handle) Status
	ConnRelease(conn Handle) Status
	ConnCommit(conn Handle) Status
	ConnPrepareStmt(conn Handle, sql string) (Handle, Status)

	// ConnNewVar allocates a native variable array of maxArraySize slots and
	// returns the variable handle together with one Data token per slot.
	// Byte-buffer sized variables supply size/sizeIsBytes; object-typed
	// variables supply objType instead.
	ConnNewVar(conn Handle, oracleType OracleType, nativeType NativeType,
		maxArraySize uint32, size uint32, sizeIsBytes bool, isArray bool,
		objType Handle) (Handle, []Data, Status)

	StmtAddRef(stmt Handle) Status
	StmtRelease(stmt Handle) Status
	StmtExecute(stmt Handle) Status

	// StmtFetch advances the cursor one row. found reports whether a row was
	// produced; bufferRowIndex is the row's index within the driver's
	// internal fetch buffer.
	StmtFetch(stmt Handle) (found bool, bufferRowIndex uint32, st Status)

	StmtNumQueryColumns(stmt Handle) (uint32, Status)
	StmtQueryInfo(stmt Handle, pos uint32) (QueryInfo, Status)
	StmtQueryValue(stmt Handle, pos uint32) (NativeType, Data, Status)
	StmtBindByPos(stmt Handle, pos uint32, v Handle) Status

	VarAddRef(v Handle) Status
	VarRelease(v Handle) Status
	VarCopyData(dst Handle, destPos uint32, src Handle, srcPos uint32) Status
	VarSetFromBytes(v Handle, pos uint32, value []byte) Status
	VarSetFromStmt(v Handle, pos uint32, stmt Handle) Status
	VarSetFromRowid(v Handle, pos uint32, rowid Handle) Status
	VarNumElements(v Handle) (uint32, Status)
	VarSizeInBytes(v Handle) (uint32, Status)
	VarReturnedData(v Handle, pos uint32) ([]Data, Status)

	RowidAddRef(rowid Handle) Status
	RowidRelease(rowid Handle) Status
	RowidStringValue(rowid Handle) (string, Status)

	// Slot accessors. These never fail at the native level; callers are
	// responsible for checking the slot's type tag first.
	DataIsNull(d Data) bool
	DataGetBool(d Data) bool
	DataGetInt64(d Data) int64
	DataGetUint64(d Data) uint64
	DataGetFloat(d Data) float32
	DataGetDouble(d Data) float64
	DataGetBytes(d Data) []byte
	DataGetTimestamp(d Data) *Timestamp
	DataGetRowid(d Data) Handle
}
