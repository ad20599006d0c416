package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/worksphere/server/cmd/worksphere/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worksphere",
		Short: "WorkSphere API Server",
		Long:  `WorkSphere is a task-tracking web application: users authenticate, create and assign tasks, filter and search them, and view aggregate dashboard statistics.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
