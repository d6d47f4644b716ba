// Package proxy generates JavaScript proxy objects for the AJAX actions of a
// controller. Each action becomes a function taking its parameters plus a
// callback and issuing an Ext.Ajax.request against the action URL.
package proxy
