package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"geo-marker-go/pkg/models"
)

// ErrInvalidCoordinate ошибка разбора компонентов координаты
var ErrInvalidCoordinate = errors.New("invalid coordinate component")

// ToDecimalDegrees переводит угол из градусов/минут/секунд в десятичные градусы.
// Для южного и западного полушарий (ref "S" или "W") значение отрицательное
func ToDecimalDegrees(degrees, minutes, seconds float64, ref string) float64 {
	decimal := degrees + minutes/60 + seconds/3600
	if ref == "S" || ref == "W" {
		decimal = -decimal
	}
	return decimal
}

// DMSAngleToDecimal разбирает сырой DMS-угол из метаданных и переводит его
// в десятичные градусы. Отсутствующие компоненты считаются нулевыми,
// нечисловые значения дают ErrInvalidCoordinate
func DMSAngleToDecimal(angle models.DMSAngle, ref string) (float64, error) {
	degrees, err := numberOrZero(angle.Degrees)
	if err != nil {
		return 0, fmt.Errorf("degrees: %w", err)
	}
	minutes, err := numberOrZero(angle.Minutes)
	if err != nil {
		return 0, fmt.Errorf("minutes: %w", err)
	}
	seconds, err := numberOrZero(angle.Seconds)
	if err != nil {
		return 0, fmt.Errorf("seconds: %w", err)
	}
	return ToDecimalDegrees(degrees, minutes, seconds, ref), nil
}

// NumberOrNil пытается привести сырое JSON-значение к числу.
// Отсутствующее или нечисловое значение дает nil
func NumberOrNil(value interface{}) *float64 {
	if value == nil {
		return nil
	}
	number, err := toNumber(value)
	if err != nil {
		return nil
	}
	return &number
}

// numberOrZero приводит сырое JSON-значение к числу, nil считается нулем
func numberOrZero(value interface{}) (float64, error) {
	if value == nil {
		return 0, nil
	}
	return toNumber(value)
}

func toNumber(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		number, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, v.String())
		}
		return number, nil
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, v)
		}
		return number, nil
	default:
		return 0, fmt.Errorf("%w: unexpected type %T", ErrInvalidCoordinate, value)
	}
}
