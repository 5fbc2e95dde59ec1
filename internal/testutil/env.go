package testutil

// Env is a map-backed environment usable as a lookup function.
type Env map[string]string

// Lookup has the signature of os.LookupEnv.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}
