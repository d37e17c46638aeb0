package moodleapi

import (
	"fmt"
	"reflect"
	"strconv"

	"MoodleWS/internal/moodleapi/models"
)

// EncodeWSArguments разворачивает дерево параметров в плоский map
// query-параметров в диалекте REST сервера Moodle:
//
//	{"criteria": [{"key": "deleted", "value": 0}]}
//	  -> {"criteria[0][key]": "deleted", "criteria[0][value]": "0"}
//
// Допустимые узлы дерева: скаляры (строки, числа, bool, nil), срезы и map
// со строковыми ключами. Любой другой тип - models.TypeConversionError.
func EncodeWSArguments(args map[string]interface{}) (map[string]string, error) {
	result := make(map[string]string, len(args))
	for key, value := range args {
		if err := encodeValue(key, value, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func encodeValue(prefix string, value interface{}, result map[string]string) error {
	switch v := value.(type) {
	case nil:
		result[prefix] = ""
	case string:
		result[prefix] = v
	case bool:
		result[prefix] = strconv.FormatBool(v)
	case int:
		result[prefix] = strconv.Itoa(v)
	case int64:
		result[prefix] = strconv.FormatInt(v, 10)
	case float64:
		// формат без экспоненты, ноль кодируется как "0"
		result[prefix] = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		result[prefix] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []interface{}:
		for i, item := range v {
			if err := encodeValue(fmt.Sprintf("%s[%d]", prefix, i), item, result); err != nil {
				return err
			}
		}
	case map[string]interface{}:
		for key, item := range v {
			if err := encodeValue(fmt.Sprintf("%s[%s]", prefix, key), item, result); err != nil {
				return err
			}
		}
	case map[string]string:
		for key, item := range v {
			result[fmt.Sprintf("%s[%s]", prefix, key)] = item
		}
	default:
		return encodeReflected(prefix, value, result)
	}
	return nil
}

// encodeReflected обрабатывает типизированные срезы и map (например []int),
// которые не попали в явные ветки encodeValue
func encodeReflected(prefix string, value interface{}, result map[string]string) error {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		result[prefix] = strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		result[prefix] = strconv.FormatUint(rv.Uint(), 10)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := encodeValue(fmt.Sprintf("%s[%d]", prefix, i), rv.Index(i).Interface(), result); err != nil {
				return err
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return &models.TypeConversionError{Path: prefix, Value: value}
		}
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			if err := encodeValue(fmt.Sprintf("%s[%s]", prefix, key), iter.Value().Interface(), result); err != nil {
				return err
			}
		}
	default:
		return &models.TypeConversionError{Path: prefix, Value: value}
	}
	return nil
}
