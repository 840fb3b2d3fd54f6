package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}

// appendToEnvFile は .env ファイルのキーを追加・更新する
//
// ファイルがなければ作成する。既存のキーは保持される。
func appendToEnvFile(path, key, value string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		env = map[string]string{}
	}
	env[key] = value
	return godotenv.Write(env, path)
}
