package fs

var FormatPost = formatPost
