package dotenv

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load читает .env и применяет флаги командной строки поверх него.
// Флаг -port перекрывает PORT, чтобы поднимать несколько инстансов
// локально без правки .env.
func Load() error {
	if err := godotenv.Load(); err != nil {
		return err
	}

	var port string
	flag.StringVar(&port, "port", "", "server port (overrides PORT)")
	flag.Parse()

	if port != "" {
		if err := os.Setenv("PORT", port); err != nil {
			return fmt.Errorf("override PORT: %w", err)
		}
	}
	return nil
}
