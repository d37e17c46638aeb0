package moodleapi

import (
	"testing"

	"MoodleWS/internal/moodleapi/models"

	"github.com/stretchr/testify/assert"
)

func TestEncodeWSArgumentsCriteria(t *testing.T) {
	Assert := assert.New(t)

	result, err := EncodeWSArguments(map[string]interface{}{
		"criteria": []interface{}{
			map[string]interface{}{"key": "deleted", "value": 0},
		},
	})

	Assert.NoError(err)
	Assert.Equal(map[string]string{
		"criteria[0][key]":   "deleted",
		"criteria[0][value]": "0",
	}, result)
}

func TestEncodeWSArgumentsNestedMap(t *testing.T) {
	Assert := assert.New(t)

	result, err := EncodeWSArguments(map[string]interface{}{
		"a": map[string]interface{}{"b": "c"},
	})

	Assert.NoError(err)
	Assert.Equal(map[string]string{"a[b]": "c"}, result)
}

func TestEncodeWSArgumentsScalars(t *testing.T) {
	Assert := assert.New(t)

	result, err := EncodeWSArguments(map[string]interface{}{
		"s":     "text",
		"zero":  0,
		"n":     int64(42),
		"f":     1.5,
		"b":     true,
		"empty": nil,
	})

	Assert.NoError(err)
	Assert.Equal(map[string]string{
		"s":     "text",
		"zero":  "0",
		"n":     "42",
		"f":     "1.5",
		"b":     "true",
		"empty": "",
	}, result)
}

func TestEncodeWSArgumentsTypedSlices(t *testing.T) {
	Assert := assert.New(t)

	result, err := EncodeWSArguments(map[string]interface{}{
		"userids": []int{7, 8},
		"fields":  map[string]string{"city": "Moscow"},
	})

	Assert.NoError(err)
	Assert.Equal(map[string]string{
		"userids[0]":   "7",
		"userids[1]":   "8",
		"fields[city]": "Moscow",
	}, result)
}

// уже плоский map строк проходит кодирование без изменений
func TestEncodeWSArgumentsIdempotent(t *testing.T) {
	Assert := assert.New(t)

	flat := map[string]interface{}{
		"criteria[0][key]":   "deleted",
		"criteria[0][value]": "0",
	}

	result, err := EncodeWSArguments(flat)

	Assert.NoError(err)
	Assert.Equal(map[string]string{
		"criteria[0][key]":   "deleted",
		"criteria[0][value]": "0",
	}, result)
}

func TestEncodeWSArgumentsUnsupportedType(t *testing.T) {
	Assert := assert.New(t)

	_, err := EncodeWSArguments(map[string]interface{}{
		"callback": func() {},
	})

	var convErr *models.TypeConversionError
	Assert.ErrorAs(err, &convErr)
	Assert.Equal("callback", convErr.Path)
}

func TestEncodeWSArgumentsUnsupportedNestedType(t *testing.T) {
	Assert := assert.New(t)

	_, err := EncodeWSArguments(map[string]interface{}{
		"criteria": []interface{}{
			map[string]interface{}{"value": make(chan int)},
		},
	})

	var convErr *models.TypeConversionError
	Assert.ErrorAs(err, &convErr)
	Assert.Equal("criteria[0][value]", convErr.Path)
}

func TestEncodeWSArgumentsNonStringKeyMap(t *testing.T) {
	Assert := assert.New(t)

	_, err := EncodeWSArguments(map[string]interface{}{
		"bad": map[int]string{1: "x"},
	})

	var convErr *models.TypeConversionError
	Assert.ErrorAs(err, &convErr)
}

func TestEncodeWSArgumentsEmpty(t *testing.T) {
	Assert := assert.New(t)

	result, err := EncodeWSArguments(nil)

	Assert.NoError(err)
	Assert.Empty(result)
}
