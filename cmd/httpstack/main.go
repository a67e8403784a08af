package main

import (
	"github.com/stkali/httpstack/errors"
)

func main() {
	errors.SetErrPrefix("httpstack")
	errors.CheckErr(newRootCmd().Execute())
}
