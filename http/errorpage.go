package http

import (
	"fmt"
	"net/http"
)

const errorPageHTML = `<html>
<head><title>%[1]d %[2]s</title></head>
<body>
<center><h1>%[1]d %[2]s</h1></center>
<hr><center>dirindex</center>
</body>
</html>`

func errorPage(code int) []byte {
	return fmt.Appendf(nil, errorPageHTML, code, http.StatusText(code))
}
