package meta

// Version is the application version, overridden at release time.
const Version = "v0.2.0"
