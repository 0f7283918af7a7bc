package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeBookNotFound, "图书不存在")

	if err.Code != ErrCodeBookNotFound {
		t.Errorf("错误码应该为%d, 实际为 %d", ErrCodeBookNotFound, err.Code)
	}
	if err.Message != "图书不存在" {
		t.Errorf("错误信息不正确: %s", err.Message)
	}
	if err.Error() != fmt.Sprintf("[%d] 图书不存在", ErrCodeBookNotFound) {
		t.Errorf("Error()格式不正确: %s", err.Error())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeInsufficientStock, "图书《%s》库存不足,还差%d本", "1984", 3)

	if err.Code != ErrCodeInsufficientStock {
		t.Errorf("错误码应该为%d, 实际为 %d", ErrCodeInsufficientStock, err.Code)
	}
	if err.Message != "图书《1984》库存不足,还差3本" {
		t.Errorf("格式化信息不正确: %s", err.Message)
	}
}

func TestWrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, "数据库错误")

	if err.Code != ErrCodeInternal {
		t.Errorf("包装错误的错误码应该为%d, 实际为 %d", ErrCodeInternal, err.Code)
	}

	// Unwrap支持errors.Is穿透到底层错误
	if !errors.Is(err, inner) {
		t.Error("errors.Is应该匹配被包装的底层错误")
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeInsufficientStock, "库存不足")

	if !IsCode(err, ErrCodeInsufficientStock) {
		t.Error("IsCode应该匹配自身的错误码")
	}
	if IsCode(err, ErrCodeBookNotFound) {
		t.Error("IsCode不应该匹配其他错误码")
	}

	// 经过fmt.Errorf包装后仍可识别
	wrapped := fmt.Errorf("下单失败: %w", err)
	if !IsCode(wrapped, ErrCodeInsufficientStock) {
		t.Error("IsCode应该穿透fmt.Errorf包装")
	}

	if IsCode(errors.New("plain error"), ErrCodeInternal) {
		t.Error("普通错误不应该匹配任何错误码")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Error("nil不应该匹配任何错误码")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(ErrBookNotFound) {
		t.Error("预定义错误应该是AppError")
	}
	if IsAppError(errors.New("plain error")) {
		t.Error("普通错误不应该是AppError")
	}
}

func TestGetAppError(t *testing.T) {
	t.Run("提取AppError", func(t *testing.T) {
		got := GetAppError(ErrInsufficientStock)
		if got.Code != ErrCodeInsufficientStock {
			t.Errorf("错误码应该为%d, 实际为 %d", ErrCodeInsufficientStock, got.Code)
		}
	})

	t.Run("包装后仍可提取", func(t *testing.T) {
		wrapped := fmt.Errorf("外层: %w", ErrBookNotFound)
		got := GetAppError(wrapped)
		if got.Code != ErrCodeBookNotFound {
			t.Errorf("错误码应该为%d, 实际为 %d", ErrCodeBookNotFound, got.Code)
		}
	})

	t.Run("普通错误转为内部错误", func(t *testing.T) {
		got := GetAppError(errors.New("boom"))
		if got.Code != ErrCodeInternal {
			t.Errorf("普通错误应该转为%d, 实际为 %d", ErrCodeInternal, got.Code)
		}
	})
}
