package main

import (
	"encoding/json"
	"fmt"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail("marshal", err)
	}
	fmt.Println(string(data))
	return nil
}
