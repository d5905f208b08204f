package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"gitlab.com/dirk.krummacker/person-service/internal/config"
	"gitlab.com/dirk.krummacker/person-service/internal/handler"
	"gitlab.com/dirk.krummacker/person-service/internal/logger"
	"gitlab.com/dirk.krummacker/person-service/internal/mapper"
	"gitlab.com/dirk.krummacker/person-service/internal/repository"
	"gitlab.com/dirk.krummacker/person-service/internal/service"
)

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost DBUSER=<user> DBPWD=<password> GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	cfg, err := config.Load(true)
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

	personRepository, err := repository.NewPersonRepository(db)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up person repository")
	}
	phoneRepository, err := repository.NewPhoneRepository(db)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up phone repository")
	}
	phoneMapper := mapper.NewPhoneMapper()
	persons := service.NewPersonService(personRepository, mapper.NewPersonMapper(phoneMapper))
	phones := service.NewPhoneService(phoneRepository, phoneMapper)

	router, err := handler.SetupHttpRouter(persons, phones, log.Logger, cfg.GinLogging)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up router")
	}
	log.Info().Int("port", cfg.Port).Msg("starting person service")
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
