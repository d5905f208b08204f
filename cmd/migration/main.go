package main

import (
	"bufio"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gitlab.com/dirk.krummacker/person-service/internal/config"
	"gitlab.com/dirk.krummacker/person-service/internal/logger"
	"gitlab.com/dirk.krummacker/person-service/internal/repository"
)

// Usage example on the command line:
// > DBHOST=localhost DBUSER=<user> DBPWD=<password> go run main.go -file=../../scripts/database.sql
func main() {
	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	cfg, err := config.Load(false)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Logger = logger.New(cfg.LogLevel, os.Stdout)

	sqlDB, err := repository.CreateDatabase(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	db := repository.NewDatabaseWrapper(sqlDB)
	defer db.Close()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePtr).Msg("could not open sql file")
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	statements := 0
	for fileScanner.Scan() {
		line := fileScanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			db.MustExec(sql)
			statements++
			builder = strings.Builder{}
		}
	}
	log.Info().Int("statements", statements).Str("file", *filePtr).Msg("migration done")
}
