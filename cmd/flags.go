package cmd

import (
	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/spf13/pflag"
)

// jobFlags are the connection flags shared by run and check.
type jobFlags struct {
	site     string
	from     string
	to       string
	policy   string
	endpoint string
	user     string
	password string
	database string
}

func (f *jobFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.site, "site", "", "A single site id (manual input mode)")
	flags.StringVar(&f.from, "from", "", "First business date, YYYY-MM-DD")
	flags.StringVar(&f.to, "to", "", "Last business date, YYYY-MM-DD")
	flags.StringVar(&f.policy, "policy", "", "Routing policy (default from config)")
	flags.StringVar(&f.endpoint, "endpoint", "", "Connect to this endpoint instead of deriving one per site")
	flags.StringVar(&f.user, "user", "", "Database username (default $SALESRPT_DB_USER)")
	flags.StringVar(&f.password, "password", "", "Database password (default $SALESRPT_DB_PASSWORD)")
	flags.StringVar(&f.database, "database", "", "Database name (default $SALESRPT_DB_NAME)")
}

// params builds the job parameters, letting flags override the credentials
// loaded from the environment.
func (f *jobFlags) params() types.JobParams {
	creds := credentials
	if f.user != "" {
		creds.Username = f.user
	}
	if f.password != "" {
		creds.Password = f.password
	}
	if f.database != "" {
		creds.Database = f.database
	}

	policy := f.policy
	if policy == "" && f.endpoint == "" {
		policy = mainConfig.DefaultPolicy
	}

	return types.JobParams{
		FromDate:       f.from,
		ToDate:         f.to,
		Credentials:    creds,
		RoutingPolicy:  policy,
		CustomEndpoint: f.endpoint,
	}
}
