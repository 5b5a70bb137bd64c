package config

// usersTableEnvVar is the environment variable a stage section may use to
// name the users table.
const usersTableEnvVar = "USERS_TABLE_NAME"

// StageConfig is one entry of the "stages" object in the JSON config file.
//
// Both a plain "users_table_name" key and the deployment-tool layout
// {"environment_variables": {"USERS_TABLE_NAME": "..."}} are accepted, so an
// existing per-stage deployment config can be pointed at directly.
type StageConfig struct {
	TableName            string            `json:"users_table_name"`
	EnvironmentVariables map[string]string `json:"environment_variables"`
}

// UsersTableName returns the table configured for the stage.
func (s StageConfig) UsersTableName() string {
	if s.TableName != "" {
		return s.TableName
	}
	return s.EnvironmentVariables[usersTableEnvVar]
}
