package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/weave-swap/errors"
	amino "github.com/tendermint/go-amino"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      interface{}
}

// TestGen writes the amino json and binary encodings of every example
// into outdir, so that clients can test their codecs against them.
func TestGen(cdc *amino.Codec, examples []Example, outdir string) error {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrap(err, "cannot create output directory")
	}

	for _, ex := range examples {
		js, err := cdc.MarshalJSONIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "json %s", ex.Filename)
		}
		jsFile := filepath.Join(outdir, ex.Filename+".json")
		if err := ioutil.WriteFile(jsFile, js, 0644); err != nil {
			return err
		}

		bin, err := cdc.MarshalBinaryBare(ex.Obj)
		if err != nil {
			return errors.Wrapf(err, "binary %s", ex.Filename)
		}
		binFile := filepath.Join(outdir, ex.Filename+".bin")
		if err := ioutil.WriteFile(binFile, bin, 0644); err != nil {
			return err
		}
	}
	return nil
}
