// Package units implements kfactory's database-unit conversion and its
// rigid/similarity transform algebra (Trans, DTrans, CplxTrans, DCplxTrans).
package units
