// 包 errs：数据加载阶段共用的错误类型，启动期遇到即终止
package errs

import (
	"errors"
	"fmt"
)

// ErrDataLoad：用于 errors.Is 判定的哨兵值
var ErrDataLoad = errors.New("data load failed")

// DataLoadError：数据源缺失或格式错误
// 约束：Path 为出错的源文件；Err 为底层原因，可为空
type DataLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	msg := "data load " + e.Path
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataLoadError) Unwrap() error { return e.Err }

func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

// Load：构造 DataLoadError 的快捷方式
func Load(path, reason string, err error) error {
	return &DataLoadError{Path: path, Reason: reason, Err: err}
}
