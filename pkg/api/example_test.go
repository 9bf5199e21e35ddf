package api_test

import (
	"fmt"
	"log"

	"github.com/cloakwork/objcloak/pkg/api"
)

// Example demonstrates obfuscating an Objective-C snippet with a fixed
// seed so the renames are reproducible.
func Example() {
	obf, err := api.NewObfuscator(api.Options{Silent: true, Seed: 1})
	if err != nil {
		log.Fatal(err)
	}

	source := "@interface LoginManager : NSObject\n@end\n"
	result, err := obf.ObfuscateCode(source, "Login.h")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result)
}
