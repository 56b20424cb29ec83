// Package codes contains the PostgreSQL SQLSTATE error code catalog, used to
// classify the Code field of an incoming ErrorResponse message.
//
// http://www.postgresql.org/docs/current/static/errcodes-appendix.html
package codes

// Code represents a Postgres SQLSTATE error code.
type Code string

var (
	// Section: Class 00 - Successful Completion
	SuccessfulCompletion Code = "00000"
	// Section: Class 01 - Warning
	Warning                                 Code = "01000"
	WarningDynamicResultSetsReturned        Code = "0100C"
	WarningImplicitZeroBitPadding           Code = "01008"
	WarningNullValueEliminatedInSetFunction Code = "01003"
	WarningPrivilegeNotGranted              Code = "01007"
	WarningPrivilegeNotRevoked              Code = "01006"
	WarningStringDataRightTruncation        Code = "01004"
	WarningDeprecatedFeature                Code = "01P01"
	// Section: Class 02 - No Data
	NoData                                Code = "02000"
	NoAdditionalDynamicResultSetsReturned Code = "02001"
	// Section: Class 03 - SQL Statement Not Yet Complete
	SQLStatementNotYetComplete Code = "03000"
	// Section: Class 08 - Connection Exception
	ConnectionException                           Code = "08000"
	ConnectionDoesNotExist                        Code = "08003"
	ConnectionFailure                             Code = "08006"
	SQLclientUnableToEstablishSQLconnection       Code = "08001"
	SQLserverRejectedEstablishmentOfSQLconnection Code = "08004"
	TransactionResolutionUnknown                  Code = "08007"
	ProtocolViolation                              Code = "08P01"
	// Section: Class 0A - Feature Not Supported
	FeatureNotSupported Code = "0A000"
	// Section: Class 20 - Case Not Found
	CaseNotFound Code = "20000"
	// Section: Class 21 - Cardinality Violation
	CardinalityViolation Code = "21000"
	// Section: Class 22 - Data Exception
	DataException               Code = "22000"
	DatetimeFieldOverflow       Code = "22008"
	DivisionByZero              Code = "22012"
	InvalidDatetimeFormat       Code = "22007"
	InvalidTextRepresentation   Code = "22P02"
	NumericValueOutOfRange      Code = "22003"
	NullValueNotAllowed         Code = "22004"
	StringDataRightTruncation   Code = "22001"
	// Class XX - Internal Error (listed here beside the data exceptions)
	DataCorrupted              Code = "XX001"
	// Section: Class 23 - Integrity Constraint Violation
	IntegrityConstraintViolation Code = "23000"
	RestrictViolation            Code = "23001"
	NotNullViolation             Code = "23502"
	ForeignKeyViolation          Code = "23503"
	UniqueViolation              Code = "23505"
	CheckViolation               Code = "23514"
	// Section: Class 25 - Invalid Transaction State
	InvalidTransactionState Code = "25000"
	ActiveSQLTransaction    Code = "25001"
	// Section: Class 28 - Invalid Authorization Specification
	InvalidAuthorizationSpecification Code = "28000"
	InvalidPassword                   Code = "28P01"
	// Section: Class 2F - SQL Routine Exception
	SQLRoutineException Code = "2F000"
	// Section: Class 34 - Invalid Cursor Name
	InvalidCursorName Code = "34000"
	// Section: Class 38 - External Routine Exception
	ExternalRoutineException Code = "38000"
	// Section: Class 3D - Invalid Catalog Name
	InvalidCatalogName Code = "3D000"
	// Section: Class 3F - Invalid Schema Name
	InvalidSchemaName Code = "3F000"
	// Section: Class 40 - Transaction Rollback
	TransactionRollback Code = "40000"
	// Section: Class 42 - Syntax Error or Access Rule Violation
	Syntax                                Code = "42601"
	InsufficientPrivilege                 Code = "42501"
	DuplicateColumn                       Code = "42701"
	DuplicateCursor                       Code = "42P03"
	DuplicateDatabase                     Code = "42P04"
	DuplicateObject                       Code = "42710"
	DuplicatePreparedStatement            Code = "42P05"
	InvalidPreparedStatementDefinition    Code = "42P14"
	UndefinedColumn                       Code = "42703"
	UndefinedFunction                     Code = "42883"
	UndefinedTable                        Code = "42P01"
	// Section: Class 53 - Insufficient Resources
	InsufficientResources Code = "53000"
	TooManyConnections    Code = "53300"
	// Section: Class 57 - Operator Intervention
	OperatorIntervention Code = "57000"
	QueryCanceled        Code = "57014"
	AdminShutdown        Code = "57P01"
	CrashShutdown        Code = "57P02"
	CannotConnectNow      Code = "57P03"
	// Section: Class 58 - System Error
	SystemError        Code = "58000"
	// Class 54 - Program Limit Exceeded
	ProgramLimitExceeded Code = "54000"
	// Section: Class XX - Internal Error
	Internal      Code = "XX000"
	Uncategorized Code = "XXUUU"
)
