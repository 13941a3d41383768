package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const defaultBytesLen = 32

// Prints random hex key suitable for SECRET_KEY
func main() {
	fs := pflag.NewFlagSet("gensecret", pflag.ExitOnError)
	n := fs.IntP("bytes", "n", defaultBytesLen, "Key length in bytes")
	asEnv := fs.Bool("env", false, "Print as SECRET_KEY=<key> line for .env file")
	_ = fs.Parse(os.Args[1:])

	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "key length must be positive")
		os.Exit(2)
	}

	b := make([]byte, *n)
	if _, err := rand.Read(b); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}

	key := hex.EncodeToString(b)
	if *asEnv {
		fmt.Printf("SECRET_KEY=%s\n", key)
		return
	}
	fmt.Println(key)
}
