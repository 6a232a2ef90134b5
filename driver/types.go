package driver

// NativeType tags the in-memory representation stored in a value slot. The
// numbering follows the native library's dpiNativeTypeNum values.
type NativeType uint32

const (
	NativeTypeInt64      NativeType = 3000
	NativeTypeUint64     NativeType = 3001
	NativeTypeFloat      NativeType = 3002
	NativeTypeDouble     NativeType = 3003
	NativeTypeBytes      NativeType = 3004
	NativeTypeTimestamp  NativeType = 3005
	NativeTypeIntervalDS NativeType = 3006
	NativeTypeIntervalYM NativeType = 3007
	NativeTypeLOB        NativeType = 3008
	NativeTypeObject     NativeType = 3009
	NativeTypeStmt       NativeType = 3010
	NativeTypeBoolean    NativeType = 3011
	NativeTypeRowid      NativeType = 3012
)

// String returns a short name for the type tag, used in error contexts and
// by the shell's unsupported-type fallback.
func (t NativeType) String() string {
	switch t {
	case NativeTypeInt64:
		return "int64"
	case NativeTypeUint64:
		return "uint64"
	case NativeTypeFloat:
		return "float"
	case NativeTypeDouble:
		return "double"
	case NativeTypeBytes:
		return "bytes"
	case NativeTypeTimestamp:
		return "timestamp"
	case NativeTypeIntervalDS:
		return "interval day to second"
	case NativeTypeIntervalYM:
		return "interval year to month"
	case NativeTypeLOB:
		return "lob"
	case NativeTypeObject:
		return "object"
	case NativeTypeStmt:
		return "statement"
	case NativeTypeBoolean:
		return "boolean"
	case NativeTypeRowid:
		return "rowid"
	default:
		return "unknown"
	}
}

// OracleType tags the database-side wire type of a column or variable. The
// numbering follows the native library's dpiOracleTypeNum values. Only the
// types the binding layer works with are named here.
type OracleType uint32

const (
	OracleTypeNone         OracleType = 2000
	OracleTypeVarchar      OracleType = 2001
	OracleTypeNvarchar     OracleType = 2002
	OracleTypeChar         OracleType = 2003
	OracleTypeNchar        OracleType = 2004
	OracleTypeRowid        OracleType = 2005
	OracleTypeRaw          OracleType = 2006
	OracleTypeNativeFloat  OracleType = 2007
	OracleTypeNativeDouble OracleType = 2008
	OracleTypeNativeInt    OracleType = 2009
	OracleTypeNumber       OracleType = 2010
	OracleTypeDate         OracleType = 2011
	OracleTypeTimestamp    OracleType = 2012
	OracleTypeTimestampTZ  OracleType = 2013
	OracleTypeTimestampLTZ OracleType = 2014
	OracleTypeStmt         OracleType = 2019
	OracleTypeBoolean      OracleType = 2022
)
