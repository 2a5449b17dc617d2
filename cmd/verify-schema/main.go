package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/Michael-Nesci/cps510-patient-db/internal/config"
	"github.com/Michael-Nesci/cps510-patient-db/internal/database"
	"github.com/Michael-Nesci/cps510-patient-db/internal/schema"
)

func main() {
	cfg := config.Load()

	db, dialect, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected (%s)\n\n", dialect)

	missing := 0

	fmt.Println("=== Tables ===")
	for _, name := range schema.TableNames() {
		missing += check(db, name)
	}

	fmt.Println("\n=== Views ===")
	for _, name := range schema.ViewNames() {
		missing += check(db, name)
	}

	if missing > 0 {
		fmt.Printf("\n%d objects missing\n", missing)
		os.Exit(1)
	}
	fmt.Println("\nAll objects present")
}

// check 用一条零行查询探测对象是否存在（两种方言下都成立）
func check(db *sql.DB, name string) int {
	rows, err := db.Query("SELECT 1 FROM " + name + " WHERE 1=0")
	if err != nil {
		fmt.Printf("❌ %s MISSING (%v)\n", name, err)
		return 1
	}
	rows.Close()
	fmt.Printf("✅ %s\n", name)
	return 0
}
