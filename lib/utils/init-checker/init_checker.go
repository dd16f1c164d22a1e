package initchecker

import (
	"fmt"
	"reflect"
)

// CheckInit panics when one of the named dependencies is nil.
// Usage: CheckInit("store", store, "notify", notifier)
func CheckInit(pairs ...any) {
	if len(pairs)%2 != 0 {
		panic("CheckInit: odd number of arguments")
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("CheckInit: first argument of pair must be string")
		}
		if isNil(pairs[i+1]) {
			panic(fmt.Sprintf("%s dependency not initialized", name))
		}
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
