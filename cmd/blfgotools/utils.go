package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/randomouscrap98/blfgotools/blf"
)

// Every command reports its result as indented json on stdout. Logs go to
// stderr so the two can be separated.
func PrintJson(obj interface{}) {
	rawjson, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		log.Fatalln("Couldn't serialize json: ", err)
	}
	fmt.Println(string(rawjson))
}

// Get a filesafe datetime, condensed (local time)
func FileSafeDateTime() string {
	return time.Now().Format("20060102-150405")
}

func mustListFiles(dir string) []string {
	files, err := blf.ListFiles(dir)
	fatalIfErr(dir, "list files", err)
	log.Printf("Found %d files in %s\n", len(files), dir)
	return files
}
