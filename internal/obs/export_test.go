package obs

var AuthenticationString = authenticationString

// PendingRequests reports how many requests are waiting on a reply.
func (c *Client) PendingRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.watcher.Pending()
}
