// Package commands implements the ipmigoctl subcommand tree.
package commands

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "ipmigoctl",
	Short: "Query and configure a BMC over IPMI 2.0 / RMCP+ or a kernel device",
	Long: `ipmigoctl talks to a Baseboard Management Controller, either over
RMCP+/UDP or through a host-local kernel device transport, and exposes
the session, sensor, event log and LAN configuration surfaces of the
ipmigo client library.

Connection parameters can be set by flag, by IPMIGOCTL_* environment
variables, or in a config file (default: $HOME/.ipmigoctl.yaml).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ipmigoctl.yaml)")
	flags.String("transport", "rmcp", "transport to use: rmcp or kcs")
	flags.String("device", "/dev/ipmi0", "kernel device path, used when --transport=kcs")
	flags.String("address", "", "BMC address, host[:port] (required for --transport=rmcp)")
	flags.Uint("port", 623, "RMCP+ UDP port, used when --address has no port")
	flags.String("version", "2.0", "IPMI session version: 1.5 or 2.0")
	flags.StringP("user", "U", "", "remote username")
	flags.StringP("password", "P", "", "remote password")
	flags.String("privilege", "administrator", "requested session privilege level")
	flags.Uint("cipher-suite", 3, "IPMI 2.0 cipher suite ID, see Table 22-20")
	flags.Duration("timeout", 0, "per request timeout (library default: 5s)")
	flags.Uint("retries", 0, "number of retries on transport failure")
	flags.String("log-level", "warning", "log level: debug, info, warning, error")

	for _, name := range []string{
		"transport", "device", "address", "port", "version", "user", "password",
		"privilege", "cipher-suite", "timeout", "retries", "log-level",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(getInfoCmd)
	rootCmd.AddCommand(sensorsCmd)
	rootCmd.AddCommand(sensorsOfTypeCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(selCmd)
	rootCmd.AddCommand(lanConfigCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ipmigoctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("IPMIGOCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("using config file %s", viper.ConfigFileUsed())
	}

	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	log.SetLevel(level)
}
