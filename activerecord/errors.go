package activerecord

import (
	"errors"
	"fmt"
)

var ErrInvalidOperand = errors.New("filter operand has an unsupported shape")
var ErrInvalidArgument = errors.New("invalid argument")
var ErrUnknownAttribute = fmt.Errorf("%w: unknown attribute", ErrInvalidArgument)
var ErrExecutorFailed = errors.New("executor operation failed")
var ErrMaterializeFailed = errors.New("materializing row into entity failed")
var ErrDematerializeFailed = errors.New("dematerializing entity into attributes failed")
var ErrRecordNotFound = errors.New("record not found")

var ErrEmptyTableName = errors.New("empty table name supplied")
var ErrNoColumns = errors.New("schema needs at least one column")
var ErrDuplicateColumn = errors.New("duplicate column in schema")
var ErrUnknownPrimaryKey = errors.New("primary key is not a schema column")
var ErrNilExecutor = errors.New("nil executor supplied")
var ErrNilMaterializer = errors.New("nil materializer supplied")
