package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/quillpress/internal/db"
)

func main() {
	var dbPath string
	var username string
	var revoke bool
	flag.StringVar(&dbPath, "db", "quillpress.db", "sqlite db path")
	flag.StringVar(&username, "user", "", "username to promote")
	flag.BoolVar(&revoke, "revoke", false, "remove the admin role instead of granting it")
	flag.Parse()

	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Fprintln(os.Stderr, "usage: promote_admin -user <username> [-db path] [-revoke]")
		os.Exit(2)
	}

	gdb, err := db.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	found, err := db.SetAdmin(gdb, username, !revoke)
	if err != nil {
		fmt.Fprintf(os.Stderr, "update role: %v\n", err)
		os.Exit(1)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "user %q not found\n", username)
		os.Exit(1)
	}

	if revoke {
		fmt.Printf("done: %s is no longer an admin\n", username)
		return
	}
	fmt.Printf("done: %s is now an admin\n", username)
}
