package main

var NormalizeURL = normalizeURL

var Reported = reported
