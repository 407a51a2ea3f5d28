package tenant

// ScopedTables lists the tables that receive automatic tenant isolation.
// Identity infrastructure (users, sessions, roles) is resolved upstream of
// the tenant carrier and stays outside the interceptor.
func ScopedTables() []string {
	return []string{
		"sites",
		"buildings",
		"floors",
		"assets",
		"documents",
		"vendors",
	}
}
