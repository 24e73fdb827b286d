// Package hcladapter is the HCL-specific implementation of the
// config.Loader interface. It reads a release file holding a single
// `pipeline` block and translates it into the raw configuration model.
//
// Attribute values may reference host environment variables through the
// `env` object, e.g. `client_id = env.ONEDRIVE_CLIENT_ID`, so secrets never
// have to be written into the file itself.
package hcladapter
