package cli

// RunWithIO runs the command line with the given streams
var RunWithIO = run
