package model_test

import (
	"fmt"

	"schema-bridge/internal/model"
)

func ExampleStem() {
	st := model.NewStem("id", nil, 0)
	fmt.Println(st.Next())
	fmt.Println(st.Next())

	st = model.NewStem("val", map[string]struct{}{"val": {}, "val2": {}}, 3)
	a, _ := st.Next()
	b, _ := st.Next()
	_, ok := st.Next()
	fmt.Println(a, b, ok)

	// Output:
	// id true
	// id1 true
	// val1 val3 false
}
